// Command analyze prints an acoustic survey of levels: what the player hears
// from the spawn in each facing, plus walking distances to the monster and
// the waterfall. Arguments are level IDs or JSON paths; with none, every
// level known to the config manager is analysed.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/EmmaPrats/Sound-Only-Game/game/config"
	"github.com/EmmaPrats/Sound-Only-Game/game/engine"
	"github.com/EmmaPrats/Sound-Only-Game/sound"
)

var facings = []engine.Orientation{engine.Up, engine.Right, engine.Down, engine.Left}

func main() {
	levels, err := config.NewManager(os.Getenv("CONFIG_DIR"))
	if err != nil {
		fmt.Printf("Error loading levels: %v\n", err)
		os.Exit(1)
	}

	names := os.Args[1:]
	if len(names) == 0 {
		infos, err := levels.ListLevels()
		if err != nil {
			fmt.Printf("Error listing levels: %v\n", err)
			os.Exit(1)
		}
		for _, info := range infos {
			names = append(names, info.ID)
		}
	}

	for _, name := range names {
		fmt.Printf("\n=== Analyzing %s ===\n", name)

		level, err := loadLevel(levels, name)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		analyzeLevel(os.Stdout, level)
	}
}

// loadLevel treats names ending in .json with a path separator as files
func loadLevel(levels *config.Manager, name string) (*engine.LevelConfig, error) {
	if strings.HasSuffix(name, ".json") && strings.ContainsRune(name, os.PathSeparator) {
		return engine.LoadLevelConfig(name)
	}
	return levels.LoadLevel(name)
}

func analyzeLevel(w io.Writer, level *engine.LevelConfig) {
	grid, err := engine.NewGrid(level.Layout)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}

	fmt.Fprintf(w, "Name: %s\n", level.Name)
	fmt.Fprintf(w, "Grid: %d x %d (%d floor cells)\n", grid.Width(), grid.Height(), engine.CountFloor(grid))
	fmt.Fprintf(w, "Spawn: %s facing %s\n", level.Spawn, level.SpawnOrientation)
	fmt.Fprintf(w, "Threat: %s  Exit: %s\n", level.Threat, level.Exit)

	toExit, exitOK := engine.ShortestPath(grid, level.Spawn, level.Exit)
	toThreat, threatOK := engine.ShortestPath(grid, level.Spawn, level.Threat)

	switch {
	case !exitOK:
		fmt.Fprintf(w, "⚠️  CRITICAL: the exit cannot be reached from the spawn\n")
	default:
		fmt.Fprintf(w, "Steps to exit: %d (Manhattan %d)\n", toExit, engine.ManhattanDistance(level.Spawn, level.Exit))
	}
	if threatOK {
		fmt.Fprintf(w, "Steps to threat: %d (Manhattan %d)\n", toThreat, engine.ManhattanDistance(level.Spawn, level.Threat))
		if exitOK && toThreat < toExit {
			fmt.Fprintf(w, "⚠️  WARNING: the monster is closer than the waterfall\n")
		}
	}

	fmt.Fprintf(w, "\nHeard from the spawn:\n")
	mapper := engine.NewCueMapper(grid)
	for _, facing := range facings {
		player := engine.PlayerState{Cell: level.Spawn, Orientation: facing}
		threat := mapper.MixerParameters(engine.RelativeBearing(player, level.Threat))
		exit := mapper.MixerParameters(engine.RelativeBearing(player, level.Exit))

		fmt.Fprintf(w, "  facing %-5s  threat %s  exit %s\n", facing, formatParams(threat), formatParams(exit))
		if sound.Sector(threat.Angle) == sound.Sector(exit.Angle) {
			fmt.Fprintf(w, "  ⚠️  both sounds come from %s\n", sound.Sector(threat.Angle))
		}
	}
}

func formatParams(p engine.MixerParams) string {
	left, right := sound.Gains(p)
	return fmt.Sprintf("%3d° d=%3d L%.2f R%.2f (%s)", p.Angle, p.Distance, left, right, sound.Describe(p))
}
