// Package agentcli is the command-line front end of the adapter bridge.
package agentcli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gcbridge/gcbridge/internal/hidscan"
	"github.com/gcbridge/gcbridge/pkg/agent"
)

func Main(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	dir, err := os.UserConfigDir()
	if err != nil {
		return err
	}
	cmd := NewRootCmd(filepath.Join(dir, "gcbridge"))
	cmd.SetArgs(args)
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	return cmd.ExecuteContext(ctx)
}

type agentProvider func() *agent.Agent

func NewRootCmd(configDir string) *cobra.Command {
	configPath := filepath.Join(configDir, "config.yml")
	rootCmd := &cobra.Command{
		Use:   "gcbridged",
		Short: "GameCube adapter input bridge",
		Long: `gcbridged reads a GameCube controller USB adapter and serves the decoded
controller state as N64-mapped input.`,
	}
	var a *agent.Agent
	agentProvider := func() *agent.Agent {
		return a
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", configPath, "config file")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		config, err := agent.LoadConfig(configPath, configDir)
		if err != nil {
			return err
		}
		a, err = agent.NewAgent(configPath, config)
		return err
	}
	rootCmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if a == nil {
			return nil
		}
		return a.Close()
	}
	rootCmd.AddCommand(NewRun(agentProvider))
	rootCmd.AddCommand(NewState(agentProvider))
	rootCmd.AddCommand(NewAdapters(agentProvider))
	rootCmd.AddCommand(NewListDevices())
	return rootCmd
}

func NewRun(agent agentProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Connect to the adapter and poll it until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return agent().Run(cmd.Context())
		},
	}
}

func NewState(agent agentProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Read the adapter once and print the decoded port states",
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := agent().ReadState(cmd.Context())
			if err != nil {
				return err
			}
			jsonB, err := json.MarshalIndent(state, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(jsonB))
			return nil
		},
	}
}

func NewAdapters(agent agentProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "adapters",
		Short: "List adapters this host has connected to",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := agent().DeviceLog().List()
			if err != nil {
				return err
			}
			jsonB, err := json.MarshalIndent(records, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(jsonB))
			return nil
		},
	}
}

func NewListDevices() *cobra.Command {
	return &cobra.Command{
		Use:   "list-devices",
		Short: "List HID devices connected to the system",
		RunE: func(cmd *cobra.Command, args []string) error {
			devices, err := hidscan.List()
			if err != nil {
				return err
			}
			jsonB, err := json.MarshalIndent(devices, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(jsonB))
			return nil
		},
	}
}
