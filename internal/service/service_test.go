package service

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/HuntleyOG/eldvar/internal/database"
	"github.com/HuntleyOG/eldvar/internal/engine"
	"github.com/HuntleyOG/eldvar/internal/mob"
	"github.com/HuntleyOG/eldvar/internal/player"
	"github.com/HuntleyOG/eldvar/internal/settings"
	"github.com/HuntleyOG/eldvar/internal/skills"
	"github.com/HuntleyOG/eldvar/internal/world"
	"github.com/HuntleyOG/eldvar/internal/xptable"
)

func weakMob() mob.Mob {
	return mob.Mob{
		Key: "hollow_rat", Name: "Hollow Rat", Level: 1, HP: 1,
		Attack: 0, Defense: 0, RewardXP: 20, RewardGold: 5,
		MinFloor: 0, MaxFloor: 99,
	}
}

func newTestService(t *testing.T, mobs []mob.Mob) (*Service, *database.Database, *settings.Settings, player.Player) {
	t.Helper()

	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	p, err := db.CreateUser("hero", "hunter2")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	atlas := world.NewAtlas([]world.Area{
		{Slug: "hollowmere", Name: "Hollowmere"},
		{Slug: "greyharbor", Name: "Greyharbor"},
	})
	s := settings.New()
	svc := New(db, mob.NewCatalog(mobs), atlas, xptable.Build(xptable.MaxSkillLevel), s, 1)
	return svc, db, s, p
}

// driveBattle takes turns until the battle leaves ONGOING.
func driveBattle(t *testing.T, svc *Service, userID int64, style string) TurnResult {
	t.Helper()
	for i := 0; i < 500; i++ {
		res, err := svc.TakeTurn(userID, style)
		if err != nil {
			t.Fatalf("TakeTurn failed on round %d: %v", i+1, err)
		}
		if res.Battle.Status.Terminal() {
			return res
		}
	}
	t.Fatal("battle never reached a terminal status")
	return TurnResult{}
}

func TestStartBattle(t *testing.T) {
	svc, db, _, p := newTestService(t, []mob.Mob{weakMob()})

	b, err := svc.StartBattle(p.ID, "hollow_rat")
	if err != nil {
		t.Fatalf("StartBattle failed: %v", err)
	}
	if b.Status != engine.StatusOngoing {
		t.Errorf("Status = %q, want ONGOING", b.Status)
	}

	stored, err := db.GetOngoingBattle(p.ID)
	if err != nil {
		t.Fatalf("battle not persisted: %v", err)
	}
	if stored.ID != b.ID {
		t.Errorf("stored battle ID = %q, want %q", stored.ID, b.ID)
	}
}

func TestStartBattleRejectsSecond(t *testing.T) {
	svc, _, _, p := newTestService(t, []mob.Mob{weakMob()})

	if _, err := svc.StartBattle(p.ID, "hollow_rat"); err != nil {
		t.Fatalf("StartBattle failed: %v", err)
	}
	if _, err := svc.StartBattle(p.ID, "hollow_rat"); !errors.Is(err, engine.ErrBattleAlreadyActive) {
		t.Errorf("second StartBattle err = %v, want ErrBattleAlreadyActive", err)
	}
}

func TestStartBattleUnknownMob(t *testing.T) {
	svc, _, _, p := newTestService(t, []mob.Mob{weakMob()})

	if _, err := svc.StartBattle(p.ID, "no_such_mob"); !errors.Is(err, engine.ErrInvalidMob) {
		t.Errorf("err = %v, want ErrInvalidMob", err)
	}
}

func TestHunt(t *testing.T) {
	svc, _, _, p := newTestService(t, []mob.Mob{weakMob()})

	b, err := svc.Hunt(p.ID)
	if err != nil {
		t.Fatalf("Hunt failed: %v", err)
	}
	if b.Status != engine.StatusOngoing || b.MobKey != "hollow_rat" {
		t.Errorf("hunted battle = %q vs %q", b.Status, b.MobKey)
	}

	if _, err := svc.Hunt(p.ID); !errors.Is(err, engine.ErrBattleAlreadyActive) {
		t.Errorf("second Hunt err = %v, want ErrBattleAlreadyActive", err)
	}
}

func TestHuntNoEligibleMob(t *testing.T) {
	svc, _, _, p := newTestService(t, nil)

	if _, err := svc.Hunt(p.ID); !errors.Is(err, engine.ErrNoEligibleMob) {
		t.Errorf("err = %v, want ErrNoEligibleMob", err)
	}
}

func TestTakeTurnWithoutBattle(t *testing.T) {
	svc, _, _, p := newTestService(t, []mob.Mob{weakMob()})

	if _, err := svc.TakeTurn(p.ID, "attack"); !errors.Is(err, engine.ErrBattleNotOngoing) {
		t.Errorf("err = %v, want ErrBattleNotOngoing", err)
	}
}

func TestTakeTurnInvalidStyle(t *testing.T) {
	svc, _, _, p := newTestService(t, []mob.Mob{weakMob()})

	if _, err := svc.TakeTurn(p.ID, "fists"); !errors.Is(err, engine.ErrInvalidCombatStyle) {
		t.Errorf("err = %v, want ErrInvalidCombatStyle", err)
	}
}

func TestWonBattleAppliesRewards(t *testing.T) {
	svc, db, _, p := newTestService(t, []mob.Mob{weakMob()})

	if _, err := svc.StartBattle(p.ID, "hollow_rat"); err != nil {
		t.Fatalf("StartBattle failed: %v", err)
	}

	res := driveBattle(t, svc, p.ID, "attack")
	if res.Battle.Status != engine.StatusWon {
		t.Fatalf("Status = %q, want WON", res.Battle.Status)
	}

	after, err := db.GetUser(p.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if after.Gold != p.Gold+res.Battle.RewardGold {
		t.Errorf("Gold = %d, want %d", after.Gold, p.Gold+res.Battle.RewardGold)
	}
	if after.OverallXP != p.OverallXP+res.Battle.RewardXP {
		t.Errorf("OverallXP = %d, want %d", after.OverallXP, p.OverallXP+res.Battle.RewardXP)
	}
	if after.FloorWins != 1 {
		t.Errorf("FloorWins = %d, want 1", after.FloorWins)
	}
	// One win below the threshold moves no floors.
	if after.CurrentFloor != p.CurrentFloor || after.DeepestFloor != p.DeepestFloor {
		t.Errorf("floors = %d/%d after one win, want %d/%d",
			after.CurrentFloor, after.DeepestFloor, p.CurrentFloor, p.DeepestFloor)
	}

	// The style skill trains on the win.
	attack, err := db.GetUserSkill(p.ID, skills.Attack)
	if err != nil {
		t.Fatalf("GetUserSkill failed: %v", err)
	}
	if attack.XP != res.Battle.RewardXP {
		t.Errorf("attack skill XP = %d, want %d", attack.XP, res.Battle.RewardXP)
	}

	// The battle log is gapless.
	turns, err := svc.BattleLog(res.Battle.ID)
	if err != nil {
		t.Fatalf("BattleLog failed: %v", err)
	}
	for i, turn := range turns {
		if turn.TurnNo != i+1 {
			t.Fatalf("turn %d has TurnNo %d", i, turn.TurnNo)
		}
	}
	if len(turns) != res.Battle.TurnCount {
		t.Errorf("log has %d turns, battle counted %d", len(turns), res.Battle.TurnCount)
	}
}

func TestLostBattleRespawnsAndAbandonsTravel(t *testing.T) {
	monster := mob.Mob{
		Key: "abyssal_warden", Name: "Abyssal Warden", Level: 50, HP: 100000,
		Attack: 500, Defense: 0, RewardXP: 1000, RewardGold: 500,
		MinFloor: 0, MaxFloor: 99,
	}
	svc, db, _, p := newTestService(t, []mob.Mob{monster})

	p.HP = 5
	p.TravelDestination = "greyharbor"
	p.TravelProgress = 3
	p.TravelDistance = 7
	if err := db.SaveUser(p); err != nil {
		t.Fatalf("SaveUser failed: %v", err)
	}

	if _, err := svc.StartBattle(p.ID, "abyssal_warden"); err != nil {
		t.Fatalf("StartBattle failed: %v", err)
	}

	res := driveBattle(t, svc, p.ID, "attack")
	if res.Battle.Status != engine.StatusLost {
		t.Fatalf("Status = %q, want LOST", res.Battle.Status)
	}

	after, err := db.GetUser(p.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if after.HP != after.MaxHP {
		t.Errorf("HP = %d after defeat, want respawn to %d", after.HP, after.MaxHP)
	}
	if after.TravelDestination != "" || after.TravelProgress != 0 || after.TravelDistance != 0 {
		t.Errorf("travel not abandoned: %q %d/%d",
			after.TravelDestination, after.TravelProgress, after.TravelDistance)
	}
	if after.Gold != p.Gold || after.OverallXP != p.OverallXP {
		t.Errorf("defeat granted rewards: gold %d xp %d", after.Gold, after.OverallXP)
	}
}

func TestFlee(t *testing.T) {
	svc, _, _, p := newTestService(t, []mob.Mob{weakMob()})

	if _, err := svc.StartBattle(p.ID, "hollow_rat"); err != nil {
		t.Fatalf("StartBattle failed: %v", err)
	}

	b, err := svc.Flee(p.ID)
	if err != nil {
		t.Fatalf("Flee failed: %v", err)
	}
	if b.Status != engine.StatusFled {
		t.Errorf("Status = %q, want FLED", b.Status)
	}

	if _, err := svc.Flee(p.ID); !errors.Is(err, engine.ErrBattleNotOngoing) {
		t.Errorf("second Flee err = %v, want ErrBattleNotOngoing", err)
	}

	// A fled battle frees the user to start another.
	if _, err := svc.StartBattle(p.ID, "hollow_rat"); err != nil {
		t.Fatalf("StartBattle after flee failed: %v", err)
	}
}

func TestStartTravel(t *testing.T) {
	svc, db, _, p := newTestService(t, nil)

	got, err := svc.StartTravel(p.ID, "greyharbor")
	if err != nil {
		t.Fatalf("StartTravel failed: %v", err)
	}
	if got.TravelDestination != "greyharbor" {
		t.Errorf("TravelDestination = %q", got.TravelDestination)
	}
	if got.TravelDistance < 5 || got.TravelDistance > 10 {
		t.Errorf("TravelDistance = %d, want within [5, 10]", got.TravelDistance)
	}

	stored, err := db.GetUser(p.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if stored.TravelDestination != "greyharbor" {
		t.Error("travel session not persisted")
	}

	if _, err := svc.StartTravel(p.ID, "greyharbor"); err == nil {
		t.Error("StartTravel accepted a second journey")
	}
}

func TestStartTravelBlockedByBattle(t *testing.T) {
	svc, _, _, p := newTestService(t, []mob.Mob{weakMob()})

	if _, err := svc.StartBattle(p.ID, "hollow_rat"); err != nil {
		t.Fatalf("StartBattle failed: %v", err)
	}
	if _, err := svc.StartTravel(p.ID, "greyharbor"); !errors.Is(err, engine.ErrBattleAlreadyActive) {
		t.Errorf("err = %v, want ErrBattleAlreadyActive", err)
	}
	if _, err := svc.TravelStep(p.ID); !errors.Is(err, engine.ErrBattleAlreadyActive) {
		t.Errorf("TravelStep err = %v, want ErrBattleAlreadyActive", err)
	}
}

func TestTravelStepRequiresJourney(t *testing.T) {
	svc, _, _, p := newTestService(t, nil)

	if _, err := svc.TravelStep(p.ID); !errors.Is(err, engine.ErrNoActiveTravel) {
		t.Errorf("err = %v, want ErrNoActiveTravel", err)
	}
}

func TestTravelToCompletion(t *testing.T) {
	// No mobs loaded, so every step proceeds uneventfully.
	svc, db, _, p := newTestService(t, nil)

	started, err := svc.StartTravel(p.ID, "greyharbor")
	if err != nil {
		t.Fatalf("StartTravel failed: %v", err)
	}
	distance := started.TravelDistance

	var complete bool
	for i := 0; i < distance; i++ {
		res, err := svc.TravelStep(p.ID)
		if err != nil {
			t.Fatalf("TravelStep %d failed: %v", i+1, err)
		}
		if res.Encounter {
			t.Fatalf("step %d fired an encounter with no mobs loaded", i+1)
		}
		complete = res.Complete
	}
	if !complete {
		t.Fatal("journey did not complete after distance steps")
	}

	after, err := db.GetUser(p.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if after.CurrentArea != "greyharbor" {
		t.Errorf("CurrentArea = %q, want greyharbor", after.CurrentArea)
	}
	if after.TravelDestination != "" {
		t.Error("travel session not cleared after arrival")
	}

	pathfinding, err := db.GetUserSkill(p.ID, skills.Pathfinding)
	if err != nil {
		t.Fatalf("GetUserSkill failed: %v", err)
	}
	if want := distance*10 + 50; pathfinding.XP != want {
		t.Errorf("pathfinding XP = %d, want %d", pathfinding.XP, want)
	}
}

func TestTravelEncounterPersistsBattle(t *testing.T) {
	m := weakMob()
	m.HP = 30
	svc, db, _, p := newTestService(t, []mob.Mob{m})

	if _, err := svc.StartTravel(p.ID, "greyharbor"); err != nil {
		t.Fatalf("StartTravel failed: %v", err)
	}

	// Step until the encounter roll fires; journeys restart as needed.
	for i := 0; i < 200; i++ {
		res, err := svc.TravelStep(p.ID)
		if err != nil {
			t.Fatalf("TravelStep failed: %v", err)
		}
		if res.Complete {
			if _, err := svc.StartTravel(p.ID, "hollowmere"); err != nil {
				// Walked back; flip the destination again.
				if _, err := svc.StartTravel(p.ID, "greyharbor"); err != nil {
					t.Fatalf("restart travel failed: %v", err)
				}
			}
			continue
		}
		if !res.Encounter {
			continue
		}

		if res.Battle == nil {
			t.Fatal("encounter without a battle")
		}
		stored, err := db.GetOngoingBattle(p.ID)
		if err != nil {
			t.Fatalf("encounter battle not persisted: %v", err)
		}
		if stored.TravelDestination == "" {
			t.Error("persisted battle carries no travel context")
		}

		user, err := db.GetUser(p.ID)
		if err != nil {
			t.Fatalf("GetUser failed: %v", err)
		}
		if user.TravelDestination != stored.TravelDestination {
			t.Errorf("user session %q, battle context %q", user.TravelDestination, stored.TravelDestination)
		}
		if user.TravelProgress != stored.TravelProgress {
			t.Errorf("progress moved during encounter: user %d, battle %d", user.TravelProgress, stored.TravelProgress)
		}
		return
	}
	t.Fatal("no encounter fired in 200 steps")
}

func TestUpdateSettingReloadsCache(t *testing.T) {
	svc, _, s, _ := newTestService(t, nil)

	if got := s.Int(settings.KeyVoidCapPercent); got != 50 {
		t.Fatalf("starting void_cap_percent = %d, want 50", got)
	}

	if err := svc.UpdateSetting(settings.KeyVoidCapPercent, "80"); err != nil {
		t.Fatalf("UpdateSetting failed: %v", err)
	}
	if got := s.Int(settings.KeyVoidCapPercent); got != 80 {
		t.Errorf("void_cap_percent = %d after update, want 80", got)
	}
}

func TestConcurrentTurnsStayGapless(t *testing.T) {
	tank := mob.Mob{
		Key: "sunken_knight", Name: "Sunken Knight", Level: 10, HP: 100000,
		Attack: 0, Defense: 0, RewardXP: 50, RewardGold: 20,
		MinFloor: 0, MaxFloor: 99,
	}
	svc, _, _, p := newTestService(t, []mob.Mob{tank})

	b, err := svc.StartBattle(p.ID, "sunken_knight")
	if err != nil {
		t.Fatalf("StartBattle failed: %v", err)
	}

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 5; i++ {
				if _, err := svc.TakeTurn(p.ID, "attack"); err != nil {
					t.Errorf("concurrent TakeTurn failed: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	turns, err := svc.BattleLog(b.ID)
	if err != nil {
		t.Fatalf("BattleLog failed: %v", err)
	}
	if len(turns) != 40 {
		t.Fatalf("log has %d turns, want 40", len(turns))
	}
	for i, turn := range turns {
		if turn.TurnNo != i+1 {
			t.Fatalf("turn %d has TurnNo %d, want %d", i, turn.TurnNo, i+1)
		}
	}
}
