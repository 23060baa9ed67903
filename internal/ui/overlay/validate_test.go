package overlay

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hourglassdev/hourglass/internal/domain"
)

func overCapacityResult() domain.ValidationResult {
	return domain.ValidationResult{
		Kind:       domain.ValidationOverCapacity,
		Date:       "2026-03-02",
		TotalHours: 11,
		MaxHours:   8,
	}
}

func underScheduledResult() domain.ValidationResult {
	return domain.ValidationResult{
		Kind:           domain.ValidationUnderScheduled,
		TotalNeeded:    20,
		TotalScheduled: 14,
		Missing:        6,
	}
}

func chosenRepair(t *testing.T, cmd tea.Cmd) RepairChoice {
	t.Helper()
	require.NotNil(t, cmd)
	chosen, ok := cmd().(RepairChosenMsg)
	require.True(t, ok)
	return chosen.Choice
}

func TestValidateOverlayOverCapacityOptions(t *testing.T) {
	v := NewValidateOverlay(overCapacityResult(), 0, 0)

	require.Len(t, v.options, 4)
	assert.Equal(t, RepairRedistribute, v.options[0].choice)
	assert.Equal(t, RepairTrim, v.options[1].choice)
	assert.Equal(t, RepairRaiseCap, v.options[2].choice)
	assert.Equal(t, RepairAddOneDay, v.options[3].choice)
}

func TestValidateOverlayUnderScheduledOptions(t *testing.T) {
	v := NewValidateOverlay(underScheduledResult(), 1, 10)

	require.Len(t, v.options, 3)
	assert.Equal(t, RepairDistribute, v.options[0].choice)
	assert.Equal(t, RepairAddDays, v.options[1].choice)
	assert.Equal(t, RepairCapToFit, v.options[2].choice)
}

func TestValidateOverlayChoiceKeys(t *testing.T) {
	v := NewValidateOverlay(overCapacityResult(), 0, 0)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})

	assert.Equal(t, RepairTrim, chosenRepair(t, cmd))
}

func TestValidateOverlayEnterPicksCursor(t *testing.T) {
	v := NewValidateOverlay(underScheduledResult(), 1, 10)

	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, RepairAddDays, chosenRepair(t, cmd))
}

func TestValidateOverlayEscClosesWithoutRepair(t *testing.T) {
	v := NewValidateOverlay(overCapacityResult(), 0, 0)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEscape})
	require.NotNil(t, cmd)

	_, ok := cmd().(CloseOverlayMsg)
	assert.True(t, ok)
}

func TestValidateOverlayTitles(t *testing.T) {
	assert.Equal(t, "Day Over Capacity", NewValidateOverlay(overCapacityResult(), 0, 0).Title())
	assert.Equal(t, "Hours Still Unscheduled", NewValidateOverlay(underScheduledResult(), 1, 10).Title())
}

func TestValidateOverlayViewShowsMessage(t *testing.T) {
	v := NewValidateOverlay(overCapacityResult(), 0, 0)

	view := v.View()

	assert.Contains(t, view, "2026-03-02")
	assert.Contains(t, view, "11h")
}
