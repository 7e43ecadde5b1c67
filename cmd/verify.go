package main

import (
	"context"
	"fmt"
	"gverify/internal/config"
	"gverify/internal/deduct"
	"gverify/internal/frontend"
	"gverify/internal/issue"
	"gverify/internal/verifier"
	"time"

	yices2 "github.com/ianamason/yices2_go_bindings/yices_api"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var verifyCommand = &cobra.Command{
	Use:   "verify",
	Short: "verify a proof unit file",
	Long:  ``,
	Run: func(*cobra.Command, []string) {
		if err := verifyExec(); err != nil {
			fmt.Printf("service err: %v", err)
		} else {
			fmt.Printf("service quit")
		}
	},
}

var (
	UnitFile    string
	ConfigFile  string
	VariantName string
	Units       []string
	flags       config.Flags
)

func init() {
	verifyCommand.Flags().StringVar(&UnitFile, "file", "", "proof unit file")
	verifyCommand.Flags().StringVar(&ConfigFile, "config", "", "yaml config file")
	verifyCommand.Flags().StringVar(&VariantName, "variant", "postinv", "proof variant: postinv or pdl")
	verifyCommand.Flags().StringSliceVar(&Units, "unit", nil, "units to verify, e.g. C.m or main; default all")
	flags.Register(verifyCommand.Flags())
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(ConfigFile)
	if err != nil {
		return nil, err
	}
	return cfg, flags.Apply(cfg)
}

func verifyExec() error {
	fmt.Printf("verify exec\n")
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	variant, err := deduct.ParseVariant(VariantName)
	if err != nil {
		return err
	}
	if variant == deduct.PDL && cfg.EquationBackend == config.BackendYices {
		yices2.Init()
		defer yices2.Exit()
	}

	repo, err := frontend.Load(UnitFile)
	if err != nil {
		return errors.Wrap(err, "load proof unit")
	}

	startTime := time.Now()
	results, err := verifier.New(cfg, variant).Run(context.Background(), repo, Units...)
	log.Infof("total units verified: %d", len(results))
	for _, r := range results {
		fmt.Println(r)
	}
	fmt.Print(issue.Summary(results))
	fmt.Println("verify time used: ", time.Since(startTime).Seconds())
	return err
}
