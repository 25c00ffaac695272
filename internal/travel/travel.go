// Package travel advances multi-step journeys between world areas,
// interrupting them with random encounters. The orchestrator composes
// the combat resolver and the skill leveler but owns no storage; the
// caller persists the snapshots it returns.
package travel

import (
	"fmt"
	"math/rand"

	"github.com/HuntleyOG/eldvar/internal/engine"
	"github.com/HuntleyOG/eldvar/internal/mob"
	"github.com/HuntleyOG/eldvar/internal/player"
	"github.com/HuntleyOG/eldvar/internal/skills"
	"github.com/HuntleyOG/eldvar/internal/world"
	"github.com/HuntleyOG/eldvar/internal/xptable"
)

const (
	// Per-step encounter chance, in percent.
	encounterChancePct = 30

	// Journey length bounds, inclusive.
	minDistance = 5
	maxDistance = 10

	// Pathfinding XP per uneventful step and on arrival.
	stepXP    = 10
	arrivalXP = 50
)

// Session is a transient journey state. A zero Destination means no
// journey is active. Sessions are carried on the user's battle while a
// fight is pending and resume unchanged afterwards.
type Session struct {
	Destination string
	Progress    int
	Distance    int
}

// Active reports whether a journey is underway.
func (s Session) Active() bool {
	return s.Destination != ""
}

// StepResult is the envelope the presentation layer consumes.
type StepResult struct {
	Encounter bool
	Message   string
	Battle    *engine.Battle
	Location  *world.Area
	Complete  bool
}

// Deps bundles the read-only collaborators a step needs.
type Deps struct {
	Catalog *mob.Catalog
	Atlas   *world.Atlas
	Table   *xptable.Table
	Tuning  engine.Tuning
	RNG     *rand.Rand
}

// Outcome carries every snapshot a step may have changed.
type Outcome struct {
	Player      player.Player
	Session     Session
	Pathfinding skills.UserSkill
	Result      StepResult
	Battle      *engine.Battle
}

// Start opens a journey to the given area. Distance is drawn uniformly
// from [5, 10]. The caller must ensure no battle is ongoing and no
// other journey is active.
func Start(p player.Player, destination string, atlas *world.Atlas, rng *rand.Rand) (Session, error) {
	area, ok := atlas.Get(destination)
	if !ok {
		return Session{}, fmt.Errorf("unknown area %q", destination)
	}
	if area.Slug == p.CurrentArea {
		return Session{}, fmt.Errorf("already in %s", area.Name)
	}

	return Session{
		Destination: area.Slug,
		Progress:    0,
		Distance:    minDistance + rng.Intn(maxDistance-minDistance+1),
	}, nil
}

// TakeStep advances the journey by one step. With a fixed chance the
// step fires a random encounter instead: an eligible mob is chosen for
// the player's floor and a battle starts carrying the session as
// resume context, leaving progress untouched. If no mob is eligible
// the step quietly proceeds as a normal step. Arrival updates the
// player's area, awards the arrival bonus, and clears the session.
func TakeStep(p player.Player, sess Session, pathfinding skills.UserSkill, deps Deps) (Outcome, error) {
	out := Outcome{Player: p, Session: sess, Pathfinding: pathfinding}

	if !sess.Active() || sess.Progress >= sess.Distance {
		return out, engine.ErrNoActiveTravel
	}

	// Encounter roll
	if deps.RNG.Float64()*100.0 < encounterChancePct {
		if m, ok := deps.Catalog.RandomForFloor(p.CurrentFloor, deps.RNG); ok {
			battle, err := engine.StartBattle(p, m, p.CurrentFloor, p.VoidIntensity)
			if err != nil {
				return out, err
			}
			battle.TravelDestination = sess.Destination
			battle.TravelProgress = sess.Progress
			battle.TravelDistance = sess.Distance

			out.Battle = &battle
			out.Result = StepResult{
				Encounter: true,
				Message:   fmt.Sprintf("A %s blocks your path!", m.Name),
				Battle:    &battle,
			}
			return out, nil
		}
		// No eligible mob on this floor; the step proceeds uneventfully.
	}

	out.Session.Progress++
	out.Pathfinding = skills.AwardXP(pathfinding, stepXP, deps.Table)

	if out.Session.Progress >= out.Session.Distance {
		area, ok := deps.Atlas.Get(sess.Destination)
		if !ok {
			return out, fmt.Errorf("unknown area %q", sess.Destination)
		}

		out.Player.CurrentArea = area.Slug
		out.Pathfinding = skills.AwardXP(out.Pathfinding, arrivalXP, deps.Table)
		out.Session = Session{}
		out.Result = StepResult{
			Message:  fmt.Sprintf("You arrive in %s.", area.Name),
			Location: &area,
			Complete: true,
		}
		return out, nil
	}

	out.Result = StepResult{
		Message: fmt.Sprintf("You press on (%d/%d).", out.Session.Progress, out.Session.Distance),
	}
	return out, nil
}

// ResumeFrom rebuilds the journey a battle interrupted. Only legal for
// terminal battles; a LOST battle abandons the journey instead.
func ResumeFrom(b engine.Battle) Session {
	if b.TravelDestination == "" || b.Status == engine.StatusLost || !b.Status.Terminal() {
		return Session{}
	}
	return Session{
		Destination: b.TravelDestination,
		Progress:    b.TravelProgress,
		Distance:    b.TravelDistance,
	}
}
