package cmd

import (
	"github.com/spf13/viper"
	"log"
	"os"
	"runtime/pprof"
)

// startProfiling writes CPU and heap profiles named after component when
// running in dev. The returned func stops the CPU profile.
func startProfiling(cfg *viper.Viper, component string) func() {
	if cfg.GetString("env") != "dev" {
		return func() {}
	}

	cpu, err := os.Create(component + "-cpu.prof")
	if err != nil {
		log.Fatalf("could not create CPU profile: %v", err)
	}

	err = pprof.StartCPUProfile(cpu)
	if err != nil {
		log.Fatalf("could not start CPU profile: %v", err)
	}

	mem, err := os.Create(component + "-mem.prof")
	if err != nil {
		log.Fatalf("could not create memory profile: %v", err)
	}
	defer mem.Close()

	err = pprof.WriteHeapProfile(mem)
	if err != nil {
		log.Fatalf("could not write memory profile: %v", err)
	}

	return func() {
		pprof.StopCPUProfile()
		cpu.Close()
	}
}
