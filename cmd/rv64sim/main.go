// Command rv64sim is the interactive RV64I simulator: it loads a hex
// memory image, constructs the processor, and drops into a REPL built on
// the operations in the cpu package.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/archsim/rv64sim/config"
	"github.com/archsim/rv64sim/cpu"
	"github.com/archsim/rv64sim/loader"
	"github.com/archsim/rv64sim/memory"
	"github.com/archsim/rv64sim/repl"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	flag.Parse()

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			slog.Error("failed to load config", "path", *configPath, "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	imagePath := cfg.ImagePath
	if flag.NArg() > 0 {
		imagePath = flag.Arg(0)
	}

	mem := memory.New()
	proc := cpu.New(mem)

	if imagePath != "" {
		img, err := loader.Load(imagePath, mem)
		if err != nil {
			slog.Error("failed to load image", "path", imagePath, "error", err)
			os.Exit(1)
		}
		proc.SetPC(img.StartAddress)
		fmt.Printf("loaded %d doublewords, start address %016x\n", img.Doublewords, img.StartAddress)
	}

	env := &repl.Env{
		Proc:            proc,
		Mem:             mem,
		Out:             os.Stdout,
		CheckBreakpoint: cfg.CheckBreakpointsByDefault,
	}

	repl.Run(env, cfg.HistorySize)
}
