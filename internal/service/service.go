// Package service is the seam between the pure simulation engine and
// its collaborators: it loads snapshots, invokes the engine, and
// persists the returned state in a single transaction. Every mutating
// operation for a user runs under that user's lock, preserving the
// one-ongoing-battle and monotonic-turn invariants under concurrent
// requests.
package service

import (
	"database/sql"
	"errors"
	"math/rand"
	"sync"

	"github.com/HuntleyOG/eldvar/internal/database"
	"github.com/HuntleyOG/eldvar/internal/engine"
	"github.com/HuntleyOG/eldvar/internal/logger"
	"github.com/HuntleyOG/eldvar/internal/mob"
	"github.com/HuntleyOG/eldvar/internal/player"
	"github.com/HuntleyOG/eldvar/internal/progression"
	"github.com/HuntleyOG/eldvar/internal/settings"
	"github.com/HuntleyOG/eldvar/internal/skills"
	"github.com/HuntleyOG/eldvar/internal/travel"
	"github.com/HuntleyOG/eldvar/internal/world"
	"github.com/HuntleyOG/eldvar/internal/xptable"
)

// Service wires the engine to storage and reference data.
type Service struct {
	db       *database.Database
	catalog  *mob.Catalog
	atlas    *world.Atlas
	table    *xptable.Table
	settings *settings.Settings

	locks *userLocks

	// seed feeds a fresh rand.Rand to each operation so a seeded
	// Service replays deterministically. rand.Rand is not safe for
	// concurrent use, hence the guard.
	seedMu sync.Mutex
	seed   *rand.Rand
}

// New creates a Service. The seed makes every operation's randomness
// reproducible in tests.
func New(db *database.Database, catalog *mob.Catalog, atlas *world.Atlas,
	table *xptable.Table, s *settings.Settings, seed int64) *Service {
	return &Service{
		db:       db,
		catalog:  catalog,
		atlas:    atlas,
		table:    table,
		settings: s,
		locks:    newUserLocks(),
		seed:     rand.New(rand.NewSource(seed)),
	}
}

// newRNG derives an independent generator for one operation.
func (s *Service) newRNG() *rand.Rand {
	s.seedMu.Lock()
	n := s.seed.Int63()
	s.seedMu.Unlock()
	return rand.New(rand.NewSource(n))
}

// TurnResult is what one combat operation returns for presentation.
type TurnResult struct {
	Battle engine.Battle
	Turns  []engine.Turn
	Player player.Player
}

// StartBattle begins a fight against a specific catalog mob on the
// user's current floor.
func (s *Service) StartBattle(userID int64, mobKey string) (engine.Battle, error) {
	lock := s.locks.get(userID)
	lock.Lock()
	defer lock.Unlock()

	p, err := s.db.GetUser(userID)
	if err != nil {
		return engine.Battle{}, err
	}

	active, err := s.db.HasOngoingBattle(userID)
	if err != nil {
		return engine.Battle{}, err
	}
	if active {
		return engine.Battle{}, engine.ErrBattleAlreadyActive
	}

	m, ok := s.catalog.Get(mobKey)
	if !ok {
		return engine.Battle{}, engine.ErrInvalidMob
	}

	return s.openBattle(p, m)
}

// Hunt begins a fight against a random mob eligible for the user's
// current floor.
func (s *Service) Hunt(userID int64) (engine.Battle, error) {
	lock := s.locks.get(userID)
	lock.Lock()
	defer lock.Unlock()

	p, err := s.db.GetUser(userID)
	if err != nil {
		return engine.Battle{}, err
	}

	active, err := s.db.HasOngoingBattle(userID)
	if err != nil {
		return engine.Battle{}, err
	}
	if active {
		return engine.Battle{}, engine.ErrBattleAlreadyActive
	}

	m, ok := s.catalog.RandomForFloor(p.CurrentFloor, s.newRNG())
	if !ok {
		return engine.Battle{}, engine.ErrNoEligibleMob
	}

	return s.openBattle(p, m)
}

// openBattle creates and persists a battle. Caller holds the user lock
// and has already checked for an ongoing battle.
func (s *Service) openBattle(p player.Player, m mob.Mob) (engine.Battle, error) {
	b, err := engine.StartBattle(p, m, p.CurrentFloor, p.VoidIntensity)
	if err != nil {
		return engine.Battle{}, err
	}

	err = s.db.WithTx(func(tx *sql.Tx) error {
		return s.db.InsertBattleTx(tx, b)
	})
	if err != nil {
		return engine.Battle{}, err
	}

	logger.Info("Battle started",
		"user_id", p.ID,
		"battle_id", b.ID,
		"mob", b.MobKey,
		"floor", b.Floor)
	return b, nil
}

// TakeTurn resolves one combat round for the user's ongoing battle and
// persists battle, log, user ledger, and skill XP atomically.
func (s *Service) TakeTurn(userID int64, styleInput string) (TurnResult, error) {
	style, err := engine.ParseStyle(styleInput)
	if err != nil {
		return TurnResult{}, err
	}

	lock := s.locks.get(userID)
	lock.Lock()
	defer lock.Unlock()

	p, err := s.db.GetUser(userID)
	if err != nil {
		return TurnResult{}, err
	}

	b, err := s.db.GetOngoingBattle(userID)
	if errors.Is(err, database.ErrBattleNotFound) {
		return TurnResult{}, engine.ErrBattleNotOngoing
	}
	if err != nil {
		return TurnResult{}, err
	}

	tun := engine.TuningFrom(s.settings)
	b, turns, err := engine.TakeTurn(b, style, tun, s.newRNG())
	if err != nil {
		return TurnResult{}, err
	}

	p.HP = b.CharHPCurrent

	var styleSkill skills.UserSkill
	awardStyleXP := false

	switch b.Status {
	case engine.StatusWon:
		p = progression.ApplyWin(p, tun.Progression)
		p.Gold += b.RewardGold
		p.OverallXP += b.RewardXP
		p.Level = s.table.LevelForXP(p.OverallXP)

		styleSkill, err = s.db.GetUserSkill(userID, style.SkillKey())
		if err != nil {
			return TurnResult{}, err
		}
		styleSkill = skills.AwardXP(styleSkill, b.RewardXP, s.table)
		awardStyleXP = true

	case engine.StatusLost:
		// Defeat abandons any journey and sends the player back up
		// to recover.
		p.TravelDestination = ""
		p.TravelProgress = 0
		p.TravelDistance = 0
		p.HP = p.MaxHP
	}

	err = s.db.WithTx(func(tx *sql.Tx) error {
		if err := s.db.UpdateBattleTx(tx, b); err != nil {
			return err
		}
		if err := s.db.AppendTurnsTx(tx, b.ID, turns); err != nil {
			return err
		}
		if err := s.db.SaveUserTx(tx, p); err != nil {
			return err
		}
		if awardStyleXP {
			return s.db.UpsertUserSkillTx(tx, styleSkill)
		}
		return nil
	})
	if err != nil {
		return TurnResult{}, err
	}

	if b.Status.Terminal() {
		logger.Info("Battle ended",
			"user_id", userID,
			"battle_id", b.ID,
			"status", string(b.Status),
			"turns", b.TurnCount,
			"reward_xp", b.RewardXP,
			"reward_gold", b.RewardGold)
	}

	return TurnResult{Battle: b, Turns: turns, Player: p}, nil
}

// Flee abandons the user's ongoing battle with no damage exchange.
// Travel progress already accrued is kept.
func (s *Service) Flee(userID int64) (engine.Battle, error) {
	lock := s.locks.get(userID)
	lock.Lock()
	defer lock.Unlock()

	p, err := s.db.GetUser(userID)
	if err != nil {
		return engine.Battle{}, err
	}

	b, err := s.db.GetOngoingBattle(userID)
	if errors.Is(err, database.ErrBattleNotFound) {
		return engine.Battle{}, engine.ErrBattleNotOngoing
	}
	if err != nil {
		return engine.Battle{}, err
	}

	b, err = engine.Flee(b)
	if err != nil {
		return engine.Battle{}, err
	}

	p.HP = b.CharHPCurrent

	err = s.db.WithTx(func(tx *sql.Tx) error {
		if err := s.db.UpdateBattleTx(tx, b); err != nil {
			return err
		}
		return s.db.SaveUserTx(tx, p)
	})
	if err != nil {
		return engine.Battle{}, err
	}

	logger.Info("Battle fled", "user_id", userID, "battle_id", b.ID)
	return b, nil
}

// StartTravel opens a journey to the named area. Rejected while a
// battle is ongoing or another journey is active.
func (s *Service) StartTravel(userID int64, destination string) (player.Player, error) {
	lock := s.locks.get(userID)
	lock.Lock()
	defer lock.Unlock()

	p, err := s.db.GetUser(userID)
	if err != nil {
		return player.Player{}, err
	}

	active, err := s.db.HasOngoingBattle(userID)
	if err != nil {
		return player.Player{}, err
	}
	if active {
		return player.Player{}, engine.ErrBattleAlreadyActive
	}

	if p.TravelDestination != "" {
		return player.Player{}, errors.New("travel already in progress")
	}

	sess, err := travel.Start(p, destination, s.atlas, s.newRNG())
	if err != nil {
		return player.Player{}, err
	}

	p.TravelDestination = sess.Destination
	p.TravelProgress = sess.Progress
	p.TravelDistance = sess.Distance

	if err := s.db.SaveUser(p); err != nil {
		return player.Player{}, err
	}

	logger.Info("Travel started",
		"user_id", userID,
		"destination", sess.Destination,
		"distance", sess.Distance)
	return p, nil
}

// TravelStep advances the user's journey by one step, possibly firing
// an encounter. The step and its side effects commit atomically.
func (s *Service) TravelStep(userID int64) (travel.StepResult, error) {
	lock := s.locks.get(userID)
	lock.Lock()
	defer lock.Unlock()

	p, err := s.db.GetUser(userID)
	if err != nil {
		return travel.StepResult{}, err
	}

	active, err := s.db.HasOngoingBattle(userID)
	if err != nil {
		return travel.StepResult{}, err
	}
	if active {
		return travel.StepResult{}, engine.ErrBattleAlreadyActive
	}

	sess := travel.Session{
		Destination: p.TravelDestination,
		Progress:    p.TravelProgress,
		Distance:    p.TravelDistance,
	}

	pathfinding, err := s.db.GetUserSkill(userID, skills.Pathfinding)
	if err != nil {
		return travel.StepResult{}, err
	}

	deps := travel.Deps{
		Catalog: s.catalog,
		Atlas:   s.atlas,
		Table:   s.table,
		Tuning:  engine.TuningFrom(s.settings),
		RNG:     s.newRNG(),
	}

	out, err := travel.TakeStep(p, sess, pathfinding, deps)
	if err != nil {
		return travel.StepResult{}, err
	}

	p = out.Player
	p.TravelDestination = out.Session.Destination
	p.TravelProgress = out.Session.Progress
	p.TravelDistance = out.Session.Distance

	err = s.db.WithTx(func(tx *sql.Tx) error {
		if out.Battle != nil {
			if err := s.db.InsertBattleTx(tx, *out.Battle); err != nil {
				return err
			}
		}
		if err := s.db.SaveUserTx(tx, p); err != nil {
			return err
		}
		return s.db.UpsertUserSkillTx(tx, out.Pathfinding)
	})
	if err != nil {
		return travel.StepResult{}, err
	}

	if out.Result.Complete {
		logger.Info("Travel complete", "user_id", userID, "area", p.CurrentArea)
	}
	return out.Result, nil
}

// BattleLog returns a battle's full turn history. No user lock is
// taken; completed battles are immutable.
func (s *Service) BattleLog(battleID string) ([]engine.Turn, error) {
	return s.db.GetTurns(battleID)
}

// UpdateSetting stores a tuning value and reloads the cached settings
// map. This is the only path that mutates settings at runtime.
func (s *Service) UpdateSetting(key, value string) error {
	if err := s.db.SetSetting(key, value); err != nil {
		return err
	}

	stored, err := s.db.LoadSettings()
	if err != nil {
		return err
	}
	s.settings.Reload(stored)

	logger.Info("Setting updated", "key", key, "value", value)
	return nil
}
