package main

import (
	"context"
	"fmt"
	"gverify/internal/config"
	"gverify/internal/deduct"
	"gverify/internal/frontend"
	"gverify/internal/rule"
	"gverify/internal/tree"
	"gverify/internal/verifier"

	"github.com/spf13/cobra"
)

var dumpCommand = &cobra.Command{
	Use:   "dump",
	Short: "build proof trees and print them without discharging",
	Long:  ``,
	Run: func(*cobra.Command, []string) {
		if err := dump(); err != nil {
			fmt.Printf("service err: %v", err)
		} else {
			fmt.Printf("service quit")
		}
	},
}

var (
	DumpFile    string
	DumpVariant string
)

func init() {
	dumpCommand.Flags().StringVar(&DumpFile, "file", "", "proof unit file")
	dumpCommand.Flags().StringVar(&DumpVariant, "variant", "postinv", "proof variant: postinv or pdl")
}

// dump never calls a solver, so no branch is pruned.
func dump() error {
	fmt.Printf("dump\n")

	variant, err := deduct.ParseVariant(DumpVariant)
	if err != nil {
		return err
	}
	repo, err := frontend.Load(DumpFile)
	if err != nil {
		return err
	}
	v := verifier.New(config.Default(), variant)
	for _, u := range verifier.Units(repo.Model()) {
		root, err := v.Build(context.Background(), repo, u, rule.NeverProver{})
		if err != nil {
			fmt.Printf("%s: %v\n", u.Name, err)
			continue
		}
		fmt.Printf("Proof tree of %s:\n", u.Name)
		fmt.Println(tree.DebugString(root))
	}
	return nil
}
