package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"go.uber.org/zap"

	"github.com/bigfootbot/bigfootbot/api"
	"github.com/bigfootbot/bigfootbot/controller"
	"github.com/bigfootbot/bigfootbot/tui"
	"github.com/bigfootbot/bigfootbot/ui"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type SendCommand struct {
	Args struct {
		Commands []string `positional-arg-name:"COMMAND" description:"Command names or codes; reads stdin when empty"`
	} `positional-args:"yes"`
}

func (c *SendCommand) Execute(_ []string) error {
	ctrl, logger, err := setup(true)
	if err != nil {
		return err
	}
	defer ctrl.Close()
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signalContext()
	defer cancel()

	if len(c.Args.Commands) == 0 {
		return ctrl.Run(ctx, os.Stdin, os.Stdout)
	}
	return ctrl.Run(ctx, strings.NewReader(strings.Join(c.Args.Commands, " ")), os.Stdout)
}

type PortsCommand struct{}

func (c *PortsCommand) Execute(_ []string) error {
	ports, err := controller.GetSerialPortDetails()
	if errors.Is(err, controller.ErrNoUSBSerial) {
		fmt.Println(dimStyle.Render("No USB serial ports found"))
		return nil
	}
	if err != nil {
		return err
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("PORT", "VID", "PID", "SERIAL", "PRODUCT")
	for _, p := range ports {
		t.Row(p.Name, p.VID, p.PID, p.SerialNumber, p.Product)
	}

	fmt.Println(headerStyle.Render("USB Serial Ports"))
	fmt.Println(t)
	return nil
}

type TeleopCommand struct{}

func (c *TeleopCommand) Execute(_ []string) error {
	// the terminal belongs to the TUI, so logs only go to the file
	ctrl, logger, err := setup(false)
	if err != nil {
		return err
	}
	defer ctrl.Close()
	defer func() { _ = logger.Sync() }()

	keymap, err := ctrl.Config().ResolveKeymap()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	return tui.Run(ctx, ctrl, keymap, logger)
}

type GUICommand struct{}

func (c *GUICommand) Execute(_ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := newLogger(cfg, true)
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signalContext()
	defer cancel()

	return ui.Run(ctx, cfg, logger)
}

type ServeCommand struct {
	Addr string `long:"addr" default:":8080" description:"Address to listen on"`
}

func (c *ServeCommand) Execute(_ []string) error {
	ctrl, logger, err := setup(true)
	if err != nil {
		return err
	}
	defer ctrl.Close()
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signalContext()
	defer cancel()

	err = api.New(ctrl, logger).Run(ctx, c.Addr)
	if err != nil {
		logger.Error("server stopped", zap.Error(err))
	}
	return err
}
