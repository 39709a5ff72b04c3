// Command validate checks level JSON files. For each file it checks:
//   - JSON structure and the level rules enforced by the engine
//   - Reachability: the exit can be reached from the spawn
//   - Fairness: the exit can be reached without walking through the monster
//
// It validates ../game/config/levels by default, or the directory given as
// the first argument.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/EmmaPrats/Sound-Only-Game/game/engine"
)

const defaultLevelDir = "../game/config/levels"

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validateLevel loads and validates a single level file
func validateLevel(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	level, err := engine.ParseLevelConfig(data)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	reach := validateReachability(level)
	if !reach.Valid {
		result.Valid = false
	}
	result.Errors = append(result.Errors, reach.Errors...)

	for _, kind := range engine.CueKinds {
		if _, ok := level.Sounds.Cues[kind]; !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("✓ cue %s is silent (no sound configured)", kind))
		}
	}

	return result
}

// validateReachability checks that the exit can be reached from the spawn,
// and that some route to it avoids the threat
func validateReachability(level *engine.LevelConfig) ValidationResult {
	result := ValidationResult{Valid: true, Errors: []string{}}

	grid, err := engine.NewGrid(level.Layout)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	result.Errors = append(result.Errors, fmt.Sprintf("✓ %d floor cells", engine.CountFloor(grid)))

	toExit, ok := engine.ShortestPath(grid, level.Spawn, level.Exit)
	if !ok {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Exit %s is not reachable from spawn %s", level.Exit, level.Spawn))
		return result
	}
	result.Errors = append(result.Errors, fmt.Sprintf("✓ exit is %d steps from spawn", toExit))

	if toThreat, ok := engine.ShortestPath(grid, level.Spawn, level.Threat); ok {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ threat is %d steps from spawn", toThreat))
	}

	blocked, err := engine.NewGrid(withWall(level.Layout, grid.Height(), level.Threat))
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}
	safe, ok := engine.ShortestPath(blocked, level.Spawn, level.Exit)
	if !ok {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Exit %s can only be reached through the threat at %s", level.Exit, level.Threat))
		return result
	}
	if safe > toExit {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ avoiding the threat costs %d extra steps", safe-toExit))
	}

	return result
}

// withWall returns a copy of layout with cell turned into a wall. Layout rows
// are top-down, cells bottom-up.
func withWall(layout []string, height int, cell engine.Cell) []string {
	out := append([]string(nil), layout...)
	row := height - 1 - cell.Y
	if row < 0 || row >= len(out) || cell.X < 0 || cell.X >= len(out[row]) {
		return out
	}
	b := []byte(out[row])
	b[cell.X] = engine.WallChar
	out[row] = string(b)
	return out
}

// main validates every *.json file of the level directory, printing a concise
// report and exiting with non-zero status if any are invalid.
func main() {
	levelDir := defaultLevelDir
	if len(os.Args) > 1 {
		levelDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(levelDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding level files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No level files found in %s\n", levelDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateLevel(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All levels are valid!")
	} else {
		fmt.Println("❌ Some levels have errors")
		os.Exit(1)
	}
}
