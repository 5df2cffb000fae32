package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-labs/examchat/internal/core/domain"
)

var exportTime = time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)

func TestExportHistory_Markdown(t *testing.T) {
	history := domain.History{
		{Query: "What is the fee?", Response: "500 rupees."},
		{Query: "How to appeal?", Response: "File a form."},
	}

	got, err := ExportHistory(history, FormatMarkdown, exportTime)

	require.NoError(t, err)
	assert.Contains(t, got, "# Examination Manual Chat Export")
	assert.Contains(t, got, "Date: 2025-03-14 10:30:00")
	assert.Contains(t, got, "## Question 1")
	assert.Contains(t, got, "**User**: What is the fee?")
	assert.Contains(t, got, "**Assistant**: 500 rupees.")
	assert.Contains(t, got, "## Question 2")
}

func TestExportHistory_JSON(t *testing.T) {
	history := domain.History{{Query: "q", Response: "r"}}

	got, err := ExportHistory(history, FormatJSON, exportTime)
	require.NoError(t, err)

	var record struct {
		Timestamp     int64  `json:"timestamp"`
		Date          string `json:"date"`
		Conversations []struct {
			Index     int    `json:"index"`
			User      string `json:"user"`
			Assistant string `json:"assistant"`
		} `json:"conversations"`
	}
	require.NoError(t, json.Unmarshal([]byte(got), &record))
	assert.Equal(t, exportTime.Unix(), record.Timestamp)
	require.Len(t, record.Conversations, 1)
	assert.Equal(t, 0, record.Conversations[0].Index)
	assert.Equal(t, "q", record.Conversations[0].User)
	assert.Equal(t, "r", record.Conversations[0].Assistant)
}

func TestExportHistory_EmptyHistory(t *testing.T) {
	_, err := ExportHistory(nil, FormatMarkdown, exportTime)

	assert.ErrorIs(t, err, domain.ErrEmptyHistory)
}

func TestExportHistory_UnsupportedFormat(t *testing.T) {
	history := domain.History{{Query: "q", Response: "r"}}

	_, err := ExportHistory(history, "xml", exportTime)

	require.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), "xml")
}
