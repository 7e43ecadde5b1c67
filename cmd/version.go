package main

import (
	"fmt"
	"gverify/internal/deduct"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	BuildBranch  string
	BuildVersion string
	BuildTime    string
	Builder      string
)

var versionCommand = &cobra.Command{
	Use:   "version",
	Short: "show version",
	Long:  ``,
	Run: func(*cobra.Command, []string) {
		if err := printVersion(); err != nil {
			fmt.Printf("service err: %v", err)
		} else {
			fmt.Printf("service quit")
		}
	},
}

func printVersion() error {
	rows := [][2]string{
		{"BuildBranch", BuildBranch},
		{"BuildVersion", BuildVersion},
		{"BuildTime", BuildTime},
		{"Builder", Builder},
		{"GoVersion", runtime.Version()},
		{"Variants", deduct.PostInv.String() + ", " + deduct.PDL.String()},
	}
	for _, row := range rows {
		fmt.Printf("\033[36m%-16s\033[0m %s\n", row[0], row[1])
	}
	return nil
}
