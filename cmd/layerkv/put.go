// SPDX-License-Identifier: ISC

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cpniemand/layerkv/buffer"
)

var putCmd = &cobra.Command{
	Use:   "put KEY VALUE",
	Short: "write a key directly into the backing store",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := openStore()
		defer s.Close()

		if err := s.Put(buffer.FromString(args[0]), buffer.FromString(args[1])); err != nil {
			return err
		}
		fmt.Printf("put %q\n", args[0])
		return nil
	},
}

var getCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "read a key directly from the backing store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := openStore()
		defer s.Close()

		value, ok, err := s.Get(buffer.FromString(args[0]))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("<absent>")
			return nil
		}
		fmt.Println(string(value.Raw()))
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete KEY",
	Short: "remove a key directly from the backing store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := openStore()
		defer s.Close()
		return s.Delete(buffer.FromString(args[0]))
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "walk the backing store in key order",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := openStore()
		defer s.Close()

		it := s.Iterator(buffer.Invalid)
		defer it.Release()
		for it.Next() {
			fmt.Printf("%s => %s\n", string(it.Key().Raw()), string(it.Value().Raw()))
		}
		return it.Err()
	},
}
