package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"amber-server/internal/config"
	"amber-server/internal/domain"
	"amber-server/internal/engine"
	"amber-server/pkg/api"
	"amber-server/pkg/logger"

	"github.com/gdamore/tcell/v2"
)

func init() {
	logger.Init()
}

// Локальный бой в терминале: без сервера, энкаунтер крутится прямо здесь.
func main() {
	var (
		seed        int64
		balancePath string
		logPath     string
		tick        time.Duration
	)
	flag.Int64Var(&seed, "seed", 0, "Encounter seed (0: time-based)")
	flag.StringVar(&balancePath, "balance", "", "Path to balance YAML (empty: built-in)")
	flag.StringVar(&logPath, "log", "", "Write engine logs to this file")
	flag.DurationVar(&tick, "tick", engine.DefaultTickInterval, "Simulation tick interval")
	flag.Parse()

	// Логи поверх экрана ломают отрисовку
	logger.Log.SetOutput(io.Discard)
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger.Log.SetOutput(f)
	}

	balance := config.Default()
	if balancePath != "" {
		b, err := config.Load(balancePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load balance: %v\n", err)
			os.Exit(1)
		}
		balance = b
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	hud, err := NewHUD(balance, seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer hud.screen.Fini()

	hud.run(tick)
}

// HUD держит экран, локальный энкаунтер и ленту логов.
type HUD struct {
	screen  tcell.Screen
	balance *config.Balance
	seed    int64

	enc   *engine.Encounter
	state api.ServerResponse
	feed  []string
	// цель по Tab: 0 - босс, 1 - монстрозити
	targetIdx int
}

func NewHUD(b *config.Balance, seed int64) (*HUD, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	h := &HUD{screen: screen, balance: b, seed: seed}
	h.restart()
	return h, nil
}

func (h *HUD) restart() {
	h.feed = nil
	h.targetIdx = 0
	h.enc = engine.NewEncounter(h.balance, h.seed, domain.ObserverFunc(h.onEvent))
	h.state = engine.BuildSnapshot(h.enc, "hud", engine.MsgInit, nil)
	h.push(fmt.Sprintf("Encounter started (seed %d)", h.seed))
}

func (h *HUD) onEvent(ev domain.Event) {
	if ev.Text != "" {
		h.push(ev.Text)
	}
}

func (h *HUD) push(line string) {
	h.feed = append(h.feed, line)
	if len(h.feed) > 50 {
		h.feed = h.feed[len(h.feed)-50:]
	}
}

func (h *HUD) run(tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	h.draw()
	for {
		select {
		case ev := <-events:
			if !h.handleInput(ev) {
				return
			}
		case <-ticker.C:
			h.enc.Tick(float64(tick.Milliseconds()))
		}
		h.state = engine.BuildSnapshot(h.enc, "hud", engine.MsgUpdate, nil)
		h.draw()
	}
}

// handleInput возвращает false на выход.
func (h *HUD) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		h.screen.Sync()
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyUp:
			h.send(domain.CmdMove, api.MovePayload{Dy: -1})
		case tcell.KeyDown:
			h.send(domain.CmdMove, api.MovePayload{Dy: 1})
		case tcell.KeyLeft:
			h.send(domain.CmdMove, api.MovePayload{Dx: -1})
		case tcell.KeyRight:
			h.send(domain.CmdMove, api.MovePayload{Dx: 1})
		case tcell.KeyTab:
			h.cycleTarget()
		case tcell.KeyRune:
			switch r := ev.Rune(); r {
			case 'q':
				return false
			case 'r':
				h.restart()
			case ' ':
				h.send(domain.CmdMove, api.MovePayload{})
			case '1', '2', '3', '4':
				id := domain.AllAbilities()[r-'1']
				h.send(domain.CmdAbility, api.AbilityPayload{Ability: id.String()})
			}
		}
	}
	return true
}

func (h *HUD) cycleTarget() {
	var ids []string
	for _, b := range h.state.Bosses {
		if b.HP > 0 {
			ids = append(ids, b.ID)
		}
	}
	if len(ids) == 0 {
		return
	}
	h.targetIdx = (h.targetIdx + 1) % len(ids)
	h.send(domain.CmdTarget, api.TargetPayload{ActorID: ids[h.targetIdx]})
}

func (h *HUD) send(cmd domain.CommandType, payload any) {
	raw, _ := json.Marshal(payload)
	res, err := engine.Apply(h.enc, api.ClientCommand{Action: cmd.String(), Payload: raw})
	switch {
	case err != nil:
		h.push("Error: " + err.Error())
	case res.Msg != "" && cmd == domain.CmdAbility:
		h.push(res.Msg)
	}
}

var (
	styleDim     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	stylePlayer  = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleBoss    = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleSecond  = tcell.StyleDefault.Foreground(tcell.ColorPurple).Bold(true)
	styleAdd     = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	styleBerserk = tcell.StyleDefault.Foreground(tcell.ColorOrange).Bold(true)
	styleGlobule = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleText    = tcell.StyleDefault
	styleAlert   = tcell.StyleDefault.Foreground(tcell.ColorRed).Reverse(true)
)

const sidebarWidth = 44

func (h *HUD) draw() {
	s := h.screen
	s.Clear()
	w, hgt := s.Size()

	fieldW := w - sidebarWidth - 1
	if fieldW < 10 {
		fieldW = w
	}
	h.drawArena(fieldW, hgt)
	if fieldW < w {
		h.drawSidebar(fieldW+1, w, hgt)
	}
	s.Show()
}

func (h *HUD) drawArena(fieldW, fieldH int) {
	b := h.balance
	toCell := func(p api.Vec) (int, int) {
		x := max(0, min(int(p.X/b.Arena.Width*float64(fieldW)), fieldW-1))
		y := max(0, min(int(p.Y/b.Arena.Height*float64(fieldH)), fieldH-1))
		return x, y
	}
	for y := 0; y < fieldH; y++ {
		h.screen.SetContent(fieldW, y, '│', nil, styleDim)
	}

	for _, g := range h.state.Globules {
		x, y := toCell(g.Pos)
		h.screen.SetContent(x, y, 'o', nil, styleGlobule)
	}
	for _, a := range h.state.Actors {
		glyph, style := 'r', styleAdd
		switch {
		case a.Berserk:
			glyph, style = 'c', styleBerserk
		case a.Class == "":
			glyph = 'c'
		case a.Ranged:
			glyph = 'R'
		}
		x, y := toCell(a.Pos)
		h.screen.SetContent(x, y, glyph, nil, style)
	}
	for _, boss := range h.state.Bosses {
		glyph, style := 'U', styleBoss
		if boss.Kind == domain.KindSecondaryBoss.String() {
			glyph, style = 'M', styleSecond
		}
		x, y := toCell(boss.Pos)
		h.screen.SetContent(x, y, glyph, nil, style)
	}
	if p := h.state.Player; p != nil {
		x, y := toCell(p.Pos)
		h.screen.SetContent(x, y, '@', nil, stylePlayer)
	}
}

func (h *HUD) drawSidebar(x0, w, hgt int) {
	row := 0
	line := func(style tcell.Style, format string, args ...any) {
		if row >= hgt {
			return
		}
		text := fmt.Sprintf(format, args...)
		col := x0
		for _, r := range text {
			if col >= w {
				break
			}
			h.screen.SetContent(col, row, r, nil, style)
			col++
		}
		row++
	}

	st := h.state
	line(styleText, "Amber-Shaper Un'sok  seed %d", h.seed)
	line(styleText, "Time %.1fs  Phase %d  Score %d", st.Encounter.ElapsedMs/1000, st.Encounter.Phase, st.Encounter.Score)
	line(styleDim, "Status: %s", st.Encounter.Status)
	row++

	if p := st.Player; p != nil {
		line(stylePlayer, "You  HP %.0f/%.0f  WP %.0f/%.0f", p.HP, p.MaxHP, p.Willpower, p.MaxWillpower)
		for i, id := range domain.AllAbilities() {
			cd := p.Cooldowns[id.String()]
			ready := "ready"
			if cd > 0 {
				ready = fmt.Sprintf("%.1fs", cd)
			}
			line(styleText, " %d %-17s %s", i+1, id.String(), ready)
		}
		for _, d := range p.Debuffs {
			line(styleDim, " %s %.0f%% %.1fs", d.Name, d.Percent, d.RemainingS)
		}
		if p.TargetID != "" {
			line(styleDim, " target %s", p.TargetID)
		}
	}
	for _, c := range st.Casts {
		if c.Active {
			line(styleAlert, "%s casting Amber Explosion %3.0f%%", c.Label, c.Progress)
		} else {
			line(styleDim, "%s explosion in %.1fs", c.Label, c.NextInMs/1000)
		}
	}
	row++

	for _, b := range st.Bosses {
		style := styleBoss
		if b.Kind == domain.KindSecondaryBoss.String() {
			style = styleSecond
		}
		shield := ""
		if b.Shielded {
			shield = " [shielded]"
		}
		line(style, "%s %.0f/%.0f%s", b.Name, b.HP, b.MaxHP, shield)
		line(styleDim, " stacks %d  idle reset %.1fs", b.Stacks, b.StackIdleRemainingMs/1000)
	}
	row++

	if st.Result != nil {
		line(styleAlert, "%s: score %d", st.Result.Outcome, st.Result.FinalScore)
		line(styleText, "%s", st.Result.Reason)
		line(styleDim, "r - restart, q - quit")
		row++
	}

	rest := hgt - row - 1
	feed := h.feed
	if rest > 0 && len(feed) > rest {
		feed = feed[len(feed)-rest:]
	}
	for _, f := range feed {
		line(styleDim, "%s", f)
	}
	if row < hgt {
		row = hgt - 1
		line(styleDim, "arrows move  space stop  1-4 abilities  tab target")
	}
}
