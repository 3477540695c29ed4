// SPDX-License-Identifier: ISC

// Command layerkv reads and writes a LevelDB-backed store from the
// shell (put, get, delete, scan) and runs a demo that nests a session
// chain over it, writes, erases, commits and walks the merged view.
package main

import (
	"fmt"
	"os"

	"github.com/bitmark-inc/logger"
	"github.com/spf13/cobra"

	"github.com/cpniemand/layerkv/fault"
	"github.com/cpniemand/layerkv/store"
)

var dbPath string

var rootCmd = &cobra.Command{
	Use:   "layerkv",
	Short: "inspect and drive a layerkv session chain",
}

func main() {
	config := logger.Configuration{
		Directory: ".",
		File:      "layerkv.log",
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}
	if err := logger.Initialise(config); err != nil {
		fmt.Fprintf(os.Stderr, "layerkv: logger setup failed: %s\n", err)
		os.Exit(1)
	}
	defer logger.Finalise()

	if err := fault.Initialise(); err == nil {
		defer fault.Finalise()
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "layerkv.db", "path to the LevelDB-backed store")
	rootCmd.AddCommand(putCmd, getCmd, deleteCmd, scanCmd, demoCmd)

	if err := rootCmd.Execute(); err != nil {
		// cobra has already printed the error to stderr; log it to the
		// critical channel too so it survives in the log file.
		fault.Criticalf("command failed: %s", err)
		os.Exit(1)
	}
}

func openStore() *store.LevelStore {
	s, err := store.OpenLevelStore(dbPath)
	fault.PanicIfError("open store", err)
	return s
}
