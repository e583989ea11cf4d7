package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/hSaria/cping/internal/cping"
	"github.com/hSaria/cping/internal/icmp"
	"github.com/hSaria/cping/internal/render"
	"github.com/hSaria/cping/internal/tcp"
)

var (
	flagIPv4     bool
	flagIPv6     bool
	flagInterval float64
	flagRender   string
	flagPort     int
	flagVersion  bool

	cliVersion = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "cping [-4|-6] [-i SEC] [-l legacy|modern] [-p PORT] [-v] HOST [HOST ...]",
	Short: "Ping many hosts concurrently over ICMP or TCP",
	Args:  validateArgs,
	RunE:  run,
}

func init() {
	rootCmd.Flags().BoolVarP(&flagIPv4, "4", "4", false, "resolve hosts to IPv4 only (ICMP only; with -p hosts resolve to either family)")
	rootCmd.Flags().BoolVarP(&flagIPv6, "6", "6", false, "resolve hosts to IPv6 only (ICMP only; with -p hosts resolve to either family)")
	rootCmd.Flags().Float64VarP(&flagInterval, "i", "i", 1.0, "interval between probes, in seconds")
	rootCmd.Flags().IntVarP(&flagPort, "p", "p", 0, "TCP port to ping (pings over ICMP if unset)")
	rootCmd.Flags().BoolVarP(&flagVersion, "v", "v", false, "print version and exit")

	defaultRender := "modern"
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		defaultRender = "legacy"
	}
	rootCmd.Flags().StringVarP(&flagRender, "l", "l", defaultRender, "output mode: legacy or modern")
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		rootCmd.Flags().MarkHidden("l")
	}
}

func validateArgs(cmd *cobra.Command, args []string) error {
	if flagVersion {
		return nil
	}
	if len(args) == 0 {
		return errors.New("at least one host is required")
	}
	return nil
}

func run(cmd *cobra.Command, args []string) error {
	if flagVersion {
		fmt.Println("cping", cliVersion)
		return nil
	}

	if flagIPv4 && flagIPv6 {
		return errors.New("-4 and -6 are mutually exclusive")
	}
	if flagInterval < 0.1 {
		return errors.New("minimum interval is 0.1")
	}
	if flagRender != "legacy" && flagRender != "modern" {
		return fmt.Errorf("-l must be legacy or modern, got %q", flagRender)
	}

	protocol, err := newProtocol()
	if err != nil {
		return err
	}

	hosts := make([]*cping.Host, 0, len(args))
	renderHosts := make([]render.Host, 0, len(args))
	for _, addr := range args {
		h, err := cping.NewHost(addr, protocol)
		if err != nil {
			return err
		}
		hosts = append(hosts, h)
		renderHosts = append(renderHosts, h)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cping.StaggerStart(hosts, time.Duration(flagInterval*float64(time.Second)))

	var renderErr error
	if flagRender == "legacy" {
		render.NewLegacy(renderHosts, os.Stdout, isatty.IsTerminal(os.Stdout.Fd())).Run(ctx, time.Second)
	} else {
		renderErr = render.NewModern(renderHosts).Run(ctx)
	}

	for _, h := range hosts {
		h.Stop(true)
	}

	return renderErr
}

func newProtocol() (cping.Protocol, error) {
	family := icmp.FamilyAny
	switch {
	case flagIPv4:
		family = icmp.FamilyV4
	case flagIPv6:
		family = icmp.FamilyV6
	}

	if flagPort != 0 {
		return tcp.NewProtocol(flagPort, flagInterval)
	}
	return icmp.NewProtocol(flagInterval, family)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string printed by -v.
func SetVersion(v string) {
	cliVersion = v
}
