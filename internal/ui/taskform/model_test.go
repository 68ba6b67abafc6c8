package taskform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/task-insights/internal/model"
)

func TestStartResetsToDefaults(t *testing.T) {
	m := New(time.UTC, 80, 24)
	assert.Equal(t, model.PriorityLow, m.fb.priority)

	m.fb.description = "old"
	m.fb.priority = model.PriorityHigh
	m.Start(time.Date(2025, time.March, 10, 22, 0, 0, 0, time.UTC))

	assert.Empty(t, m.fb.description)
	assert.Equal(t, "2025-03-10", m.fb.dueDate)
	assert.Equal(t, model.PriorityLow, m.fb.priority)
}

func TestSubmitCarriesFields(t *testing.T) {
	m := New(time.UTC, 80, 24)
	m.Start(time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC))
	m.fb.description = "  call bank "

	msg, ok := m.handleSubmit()().(TaskSubmittedMsg)
	require.True(t, ok)
	assert.Equal(t, "call bank", msg.Description)
	assert.Equal(t, model.PriorityLow, msg.Priority)
	assert.Equal(t, "2025-03-10", msg.DueDate.Format(model.DateLayout))
}

func TestValidators(t *testing.T) {
	m := New(time.UTC, 80, 24)
	assert.Error(t, validateDescription("  "))
	assert.NoError(t, validateDescription("x"))
	assert.Error(t, m.validateDate("03/10/2025"))
	assert.NoError(t, m.validateDate("2025-03-10"))
}
