package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cory-johannsen/tabletop/internal/game/combat"
	"github.com/cory-johannsen/tabletop/internal/game/npc"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true)
	currentStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFD700"))
	characterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAFFF"))
	npcStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F"))
)

// renderCombat draws the combat header and its turn order, marking whose
// turn it is.
func renderCombat(c *combat.Combat) string {
	rec := c.Record()
	state := "inactive"
	if rec.Active {
		state = "active"
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("scene %d, %s, %d characters, %d npcs",
		rec.SceneID, state, len(rec.Characters), len(rec.NPCs))))

	for i, t := range rec.TurnSequence {
		style := characterStyle
		if t.Kind == combat.KindNPC {
			style = npcStyle
		}
		marker := " "
		if i == rec.TurnIndex {
			marker = ">"
			style = currentStyle
		}
		b.WriteString("\n")
		b.WriteString(style.Render(fmt.Sprintf("%s %2d. %s", marker, i+1, t)))
	}
	return b.String()
}

// renderMonsters lists the template keys -op spawn accepts.
func renderMonsters(lib *npc.Library) string {
	names := lib.Names()
	if len(names) == 0 {
		return headerStyle.Render("no monster templates loaded")
	}
	return headerStyle.Render(fmt.Sprintf("%d monster templates", len(names))) +
		"\n" + strings.Join(names, "\n")
}

// withTemplateHint names the available templates when err is a lookup miss.
func withTemplateHint(err error, lib *npc.Library) error {
	if !errors.Is(err, npc.ErrTemplateNotFound) {
		return err
	}
	return fmt.Errorf("%w (available: %s)", err, strings.Join(lib.Names(), ", "))
}
