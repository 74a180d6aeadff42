// Package ui is a desktop control pad for the BigfootBot built with fyne
package ui

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/bigfootbot/bigfootbot"
	"github.com/bigfootbot/bigfootbot/controller"
	"github.com/bigfootbot/bigfootbot/sim"
)

const (
	appID             = "io.github.bigfootbot"
	maxLogRows        = 50
	maxQueuedCommands = 16
)

// Sender sends commands and reports the expected board state
type Sender interface {
	Send(context.Context, bigfootbot.Command) (sim.Snapshot, error)
	State() sim.Snapshot
}

// ControlPad has a button for every command and shows the expected board state
type ControlPad struct {
	ctx    context.Context
	sender Sender
	logger *zap.Logger

	// queue keeps the serial write off the fyne event goroutine and sends in click order
	queue   chan bigfootbot.Command
	pending sync.WaitGroup

	// do runs widget updates on the fyne event goroutine
	do func(func())

	tilt     binding.String
	pan      binding.String
	buzzer   binding.String
	light    binding.String
	actuator binding.String
	logs     binding.StringList

	actuatorTimer *timer
}

// NewControlPad creates the pad and starts sending queued commands until ctx is done
func NewControlPad(ctx context.Context, sender Sender, logger *zap.Logger) *ControlPad {
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &ControlPad{
		ctx:           ctx,
		sender:        sender,
		logger:        logger,
		queue:         make(chan bigfootbot.Command, maxQueuedCommands),
		do:            fyne.Do,
		tilt:          binding.NewString(),
		pan:           binding.NewString(),
		buzzer:        binding.NewString(),
		light:         binding.NewString(),
		actuator:      binding.NewString(),
		logs:          binding.NewStringList(),
		actuatorTimer: newTimer(true),
	}

	go p.sendQueued()

	return p
}

// Send queues cmd and returns without waiting for the serial port. The labels update once it is sent.
func (p *ControlPad) Send(cmd bigfootbot.Command) {
	p.pending.Add(1)
	select {
	case p.queue <- cmd:
	default:
		p.pending.Done()
		p.logger.Warn("dropped command, serial link is busy", zap.Stringer("command", cmd))
		p.addLog(fmt.Sprintf("%s: dropped, serial link is busy", cmd))
	}
}

func (p *ControlPad) sendQueued() {
	for {
		select {
		case <-p.ctx.Done():
			return
		case cmd := <-p.queue:
			p.send(cmd)
			p.pending.Done()
		}
	}
}

func (p *ControlPad) send(cmd bigfootbot.Command) {
	wasMoving := actuatorMoving(p.sender.State())

	state, err := p.sender.Send(p.ctx, cmd)
	if err != nil {
		p.logger.Error("error sending command", zap.Stringer("command", cmd), zap.Error(err))
		p.do(func() {
			p.addLog(fmt.Sprintf("%s: %v", cmd, err))
		})
		return
	}

	p.logger.Info("sent command", zap.Stringer("command", cmd), zap.Stringer("state", state))

	moving := actuatorMoving(state)
	switch {
	case moving && (!wasMoving || cmd == bigfootbot.CommandActuatorUp || cmd == bigfootbot.CommandActuatorDown):
		p.actuatorTimer.Start(time.Now())
	case !moving:
		p.actuatorTimer.Pause()
	}

	sentAt := time.Now()
	p.do(func() {
		p.addLog(fmt.Sprintf("%s %-3s %s", sentAt.Format(time.TimeOnly), cmd.Code(), cmd))
		p.setState(state)
	})
}

// Refresh reads the expected state again, which picks up a quick look returning to neutral. It
// waits on the Controller, so call it off the fyne event goroutine.
func (p *ControlPad) Refresh() {
	state := p.sender.State()
	p.do(func() {
		p.setState(state)
	})
}

func (p *ControlPad) setState(state sim.Snapshot) {
	labels := labelsFor(state)
	_ = p.tilt.Set(labels.tilt)
	_ = p.pan.Set(labels.pan)
	_ = p.buzzer.Set(labels.buzzer)
	_ = p.light.Set(labels.light)
	_ = p.actuator.Set(labels.actuator)
}

func (p *ControlPad) addLog(line string) {
	rows, _ := p.logs.Get()
	rows = append([]string{line}, rows...)
	if len(rows) > maxLogRows {
		rows = rows[:maxLogRows]
	}
	_ = p.logs.Set(rows)
}

// Content builds the pad's widgets
func (p *ControlPad) Content() fyne.CanvasObject {
	p.setState(p.sender.State())

	status := container.NewGridWithColumns(3,
		widget.NewLabelWithData(p.tilt),
		widget.NewLabelWithData(p.pan),
		widget.NewLabelWithData(p.actuator),
		widget.NewLabelWithData(p.buzzer),
		widget.NewLabelWithData(p.light),
		container.NewHBox(layout.NewSpacer(), p.actuatorTimer.text),
	)

	groups := container.NewVBox()
	for _, g := range padGroups() {
		row := container.NewGridWithColumns(len(g.buttons))
		for _, b := range g.buttons {
			cmd := b.cmd
			row.Add(widget.NewButton(b.label, func() { p.Send(cmd) }))
		}
		groups.Add(widget.NewCard(g.title, "", row))
	}

	logList := widget.NewListWithData(p.logs,
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(item binding.DataItem, obj fyne.CanvasObject) {
			obj.(*widget.Label).Bind(item.(binding.String))
		},
	)
	logScroll := container.NewVScroll(logList)
	logScroll.SetMinSize(fyne.NewSize(300, 100))

	return container.NewVBox(
		status,
		groups,
		widget.NewAccordion(widget.NewAccordionItem("Sent Commands", logScroll)),
	)
}

// Run shows the connection window and then the control pad. It blocks until the app quits.
func Run(ctx context.Context, cfg controller.Config, logger *zap.Logger) error {
	application := app.NewWithID(appID)

	var (
		c      *controller.Controller
		runErr error
	)

	configWindow := NewConfigWindow(application)
	configWindow.OnSubmit = func() {
		var err error
		c, err = controller.New(cfg, logger)
		if err != nil {
			runErr = err
			application.Quit()
			return
		}

		pad := NewControlPad(ctx, c, logger)
		pad.actuatorTimer.Go()

		window := application.NewWindow("BigfootBot")
		window.SetContent(pad.Content())
		window.SetOnClosed(func() {
			pad.actuatorTimer.Stop()
		})
		window.Show()

		go func() {
			ticker := time.NewTicker(250 * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					pad.Refresh()
				}
			}
		}()
	}

	go func() {
		<-ctx.Done()
		fyne.Do(func() {
			application.Quit()
		})
	}()

	configWindow.Show(&cfg)
	application.Run()

	if c != nil {
		err := c.Close()
		if err != nil {
			logger.Error("error closing serial port", zap.Error(err))
		}
	}

	return runErr
}
