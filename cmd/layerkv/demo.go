// SPDX-License-Identifier: ISC

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cpniemand/layerkv/buffer"
	"github.com/cpniemand/layerkv/session"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "nest a session chain over the backing store and print the merged view at each step",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := openStore()
		defer s.Close()

		root := session.NewRoot(s)
		root.Write(buffer.FromString("alpha"), buffer.FromString("1"))
		root.Write(buffer.FromString("gamma"), buffer.FromString("3"))
		printMergedView("root", root)

		tip := root.Nest()
		tip.Write(buffer.FromString("beta"), buffer.FromString("2"))
		tip.Erase(buffer.FromString("alpha"))
		printMergedView("tip (alpha shadowed, beta added)", tip)

		if err := tip.Commit(); err != nil {
			return err
		}
		printMergedView("root (after commit)", root)

		return nil
	},
}

func printMergedView(label string, s session.Session) {
	fmt.Printf("%s:\n", label)
	for it := s.Begin(); !it.AtEnd(); it.Next() {
		pair, err := it.Read()
		if err != nil {
			fmt.Printf("  error: %v\n", err)
			return
		}
		fmt.Printf("  %s => %s\n", string(pair.Key().Raw()), string(pair.Value().Raw()))
	}
}
