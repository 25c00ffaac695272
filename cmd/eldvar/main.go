// eldvar runs the combat and progression engine behind a local
// stdin-driven play loop. There is no network transport; the loop
// drives the same service layer a gateway would.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/HuntleyOG/eldvar/internal/config"
	"github.com/HuntleyOG/eldvar/internal/database"
	"github.com/HuntleyOG/eldvar/internal/engine"
	"github.com/HuntleyOG/eldvar/internal/logger"
	"github.com/HuntleyOG/eldvar/internal/mob"
	"github.com/HuntleyOG/eldvar/internal/progression"
	"github.com/HuntleyOG/eldvar/internal/service"
	"github.com/HuntleyOG/eldvar/internal/settings"
	"github.com/HuntleyOG/eldvar/internal/world"
	"github.com/HuntleyOG/eldvar/internal/xptable"
)

func main() {
	configFile := flag.String("config", "data/engine.yaml", "Path to engine config YAML file")
	loggingConfig := flag.String("logging", "data/logging.yaml", "Path to logging config YAML file")
	username := flag.String("user", "wanderer", "Character name to play as")
	password := flag.String("password", "changeme", "Password for the character")
	seed := flag.Int64("seed", 0, "Simulation seed (default: random based on current time)")
	flag.Parse()

	logConfig, _ := logger.LoadConfig(*loggingConfig)
	logger.Initialize(logConfig)

	logger.Info("Starting Eldvar engine")

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		logger.Errorf("Failed to load config: %v", err)
		os.Exit(1)
	}

	catalog, err := mob.LoadCatalog(cfg.Data.MobsFile)
	if err != nil {
		logger.Errorf("Failed to load mob catalog: %v", err)
		os.Exit(1)
	}
	logger.Info("Loaded mob catalog", "mobs", catalog.Len())

	atlas, err := world.LoadAtlas(cfg.Data.AreasFile)
	if err != nil {
		logger.Errorf("Failed to load world areas: %v", err)
		os.Exit(1)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		logger.Errorf("Failed to open database: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	// Seed settings: file values over defaults, stored values win
	fileSettings, err := settings.LoadFile(cfg.Data.SettingsFile)
	if err != nil {
		logger.Warningf("Settings file ignored: %v", err)
		fileSettings = settings.New()
	}
	seedValues := settings.Defaults()
	for key := range seedValues {
		seedValues[key] = fileSettings.Raw(key)
	}
	if err := db.SeedSettings(seedValues); err != nil {
		logger.Errorf("Failed to seed settings: %v", err)
		os.Exit(1)
	}
	stored, err := db.LoadSettings()
	if err != nil {
		logger.Errorf("Failed to load settings: %v", err)
		os.Exit(1)
	}
	tunables := settings.FromMap(stored)

	table := xptable.Build(xptable.MaxSkillLevel)

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	svc := service.New(db, catalog, atlas, table, tunables, *seed)

	p, err := db.GetUserByName(*username)
	if errors.Is(err, database.ErrUserNotFound) {
		p, err = db.CreateUser(*username, *password)
		if err == nil {
			fmt.Printf("Welcome to Eldvar, %s.\n", p.Username)
		}
	}
	if err != nil {
		logger.Errorf("Failed to load character: %v", err)
		os.Exit(1)
	}

	runLoop(svc, db, atlas, p.ID)
}

func runLoop(svc *service.Service, db *database.Database, atlas *world.Atlas, userID int64) {
	fmt.Println(`Commands: status, skills, areas, travel <area>, step, hunt, turn <style>, flee, set <key> <value>, quit`)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		cmd, args := fields[0], fields[1:]
		switch cmd {
		case "quit", "exit":
			return
		case "status":
			printStatus(db, userID)
		case "skills":
			printSkills(db, userID)
		case "areas":
			printAreas(db, atlas, userID)
		case "travel":
			if len(args) != 1 {
				fmt.Println("Usage: travel <area>")
				continue
			}
			if _, err := svc.StartTravel(userID, args[0]); err != nil {
				fmt.Println(capitalize(err))
				continue
			}
			fmt.Printf("You set out for %s. Type 'step' to walk.\n", args[0])
		case "step":
			result, err := svc.TravelStep(userID)
			if err != nil {
				fmt.Println(capitalize(err))
				continue
			}
			fmt.Println(result.Message)
		case "hunt":
			doHunt(svc, userID)
		case "turn":
			if len(args) != 1 {
				fmt.Println("Usage: turn <attack|strength|defense|range|magic>")
				continue
			}
			result, err := svc.TakeTurn(userID, args[0])
			if err != nil {
				fmt.Println(capitalize(err))
				continue
			}
			for _, t := range result.Turns {
				fmt.Println(t.Text)
			}
			printBattleState(result.Battle)
		case "flee":
			if _, err := svc.Flee(userID); err != nil {
				fmt.Println(capitalize(err))
				continue
			}
			fmt.Println("You slip away from the fight.")
		case "set":
			if len(args) != 2 {
				fmt.Println("Usage: set <key> <value>")
				continue
			}
			if err := svc.UpdateSetting(args[0], args[1]); err != nil {
				fmt.Println(capitalize(err))
				continue
			}
			fmt.Printf("%s = %s\n", args[0], args[1])
		default:
			fmt.Printf("Unknown command: %s\n", cmd)
		}
	}
}

// doHunt starts a battle against a random mob eligible for the
// player's floor.
func doHunt(svc *service.Service, userID int64) {
	b, err := svc.Hunt(userID)
	if errors.Is(err, engine.ErrNoEligibleMob) {
		fmt.Println("Nothing stirs on this floor.")
		return
	}
	if err != nil {
		fmt.Println(capitalize(err))
		return
	}
	fmt.Printf("A %s (level %d) emerges from the dark!\n", b.MobName, b.MobLevel)
	printBattleState(b)
}

func printBattleState(b engine.Battle) {
	switch b.Status {
	case engine.StatusWon:
		fmt.Printf("The %s falls! You gain %d XP and %d gold.\n", b.MobName, b.RewardXP, b.RewardGold)
	case engine.StatusLost:
		fmt.Println("Darkness takes you. You wake at the surface, whole but empty-handed.")
	case engine.StatusOngoing:
		fmt.Printf("You: %d/%d HP | %s: %d/%d HP\n",
			b.CharHPCurrent, b.CharHPMax, b.MobName, b.MobHPCurrent, b.MobHPMax)
	}
}

func printStatus(db *database.Database, userID int64) {
	p, err := db.GetUser(userID)
	if err != nil {
		fmt.Println(capitalize(err))
		return
	}
	fmt.Printf(`%s (level %d)
HP: %d/%d | Gold: %d | XP: %d
Floor: %d (%s, deepest %d) | Void pressure: %d%%
Area: %s
`,
		p.Username, p.Level, p.HP, p.MaxHP, p.Gold, p.OverallXP,
		p.CurrentFloor, progression.TierName(p.CurrentFloor), p.DeepestFloor,
		p.VoidIntensity, p.CurrentArea)
	if p.TravelDestination != "" {
		fmt.Printf("Travelling to %s (%d/%d)\n",
			p.TravelDestination, p.TravelProgress, p.TravelDistance)
	}
}

func printSkills(db *database.Database, userID int64) {
	list, err := db.ListUserSkills(userID)
	if err != nil {
		fmt.Println(capitalize(err))
		return
	}
	if len(list) == 0 {
		fmt.Println("No skills trained yet.")
		return
	}
	for _, us := range list {
		fmt.Printf("%-12s level %2d (%d xp)\n", us.SkillKey, us.Level, us.XP)
	}
}

func printAreas(db *database.Database, atlas *world.Atlas, userID int64) {
	p, err := db.GetUser(userID)
	if err != nil {
		fmt.Println(capitalize(err))
		return
	}
	for _, slug := range atlas.Slugs() {
		area, _ := atlas.Get(slug)
		marker := " "
		if slug == p.CurrentArea {
			marker = "*"
		}
		fmt.Printf("%s %s (%s)\n", marker, area.Name, slug)
	}
}

// capitalize upper-cases the first letter of an error for display.
func capitalize(err error) string {
	msg := err.Error()
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
