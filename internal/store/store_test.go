package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "tuto.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

// kvContract runs the same behavioral checks against every KV backend.
func kvContract(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := kv.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, "theme", `"dark"`))
	v, ok, err := kv.Get(ctx, "theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `"dark"`, v)

	require.NoError(t, kv.Set(ctx, "theme", `"light"`))
	v, _, err = kv.Get(ctx, "theme")
	require.NoError(t, err)
	assert.Equal(t, `"light"`, v, "set must overwrite")

	require.NoError(t, kv.Delete(ctx, "theme"))
	_, ok, err = kv.Get(ctx, "theme")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Delete(ctx, "never-set"))
}

func TestSQLiteKV(t *testing.T) {
	kvContract(t, openTestStore(t).KV())
}

func TestMemoryKV(t *testing.T) {
	kvContract(t, NewMemoryKV())
}

func TestSQLiteKV_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuto.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.KV().Set(ctx, "tutoStudyPlans", "[]"))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	v, ok, err := s.KV().Get(ctx, "tutoStudyPlans")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)
}

func TestGetJSON_MalformedReadsAsAbsent(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, "dayProgress_1_0_0", "not-a-number"))

	var n int
	ok, err := GetJSON(ctx, kv, "dayProgress_1_0_0", &n)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, n)
}

func TestPrefs(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	theme, err := Theme(ctx, kv)
	require.NoError(t, err)
	assert.Equal(t, "dark", theme)

	require.NoError(t, SetTheme(ctx, kv, "light"))
	theme, err = Theme(ctx, kv)
	require.NoError(t, err)
	assert.Equal(t, "light", theme)

	require.NoError(t, SetAuthToken(ctx, kv, "tok-123"))
	tok, err := AuthToken(ctx, kv)
	require.NoError(t, err)
	assert.Equal(t, "tok-123", tok)

	require.NoError(t, SetAuthToken(ctx, kv, ""))
	tok, err = AuthToken(ctx, kv)
	require.NoError(t, err)
	assert.Empty(t, tok)
	assert.Zero(t, kv.Len())
}

func TestEventRepo_AppendAndQuery(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "groq", Model: "llama3-8b-8192", Purpose: "plan", InputTokens: 100, OutputTokens: 400, LatencyMs: 900, Success: true},
		{Provider: "groq", Model: "llama3-8b-8192", Purpose: "quiz", InputTokens: 50, OutputTokens: 120, LatencyMs: 300, Success: true},
		{Provider: "groq", Model: "llama3-8b-8192", Purpose: "quiz", LatencyMs: 100, ErrorMessage: "groq API error: 500", RequestBody: "[user]\nhi"},
	}
	for _, e := range events {
		require.NoError(t, repo.AppendLLMRequest(ctx, e))
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "quiz", all[0].Purpose, "newest first")
	assert.False(t, all[0].Success)
	assert.WithinDuration(t, time.Now(), all[0].Timestamp, time.Minute)

	quiz, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "quiz", Limit: 1})
	require.NoError(t, err)
	require.Len(t, quiz, 1)

	got, err := repo.GetLLMEvent(ctx, all[0].ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "[user]\nhi", got.RequestBody)
	assert.Equal(t, "groq API error: 500", got.ErrorMessage)

	missing, err := repo.GetLLMEvent(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestEventRepo_Usage(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{Model: "gpt-4", Purpose: "assistant", InputTokens: 10, OutputTokens: 20, LatencyMs: 100, Success: true}))
	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{Model: "gpt-4", Purpose: "assistant", InputTokens: 30, OutputTokens: 40, LatencyMs: 300, Success: true}))
	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{Model: "gpt-4", Purpose: "plan", LatencyMs: 50}))

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	require.Len(t, byPurpose, 2)
	assert.Equal(t, PurposeUsage{Purpose: "assistant", Calls: 2, InputTokens: 40, OutputTokens: 60, AvgLatencyMs: 200}, byPurpose[0])

	byModel, err := repo.LLMUsageByModel(ctx)
	require.NoError(t, err)
	require.Len(t, byModel, 1, "failed calls are not billed")
	assert.Equal(t, 2, byModel[0].Calls)
}

func TestMigrate_CreatesTablesAndIndexes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuto.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// A second open migrates an existing database without error.
	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	for _, tbl := range Tables {
		var name string
		err := s.DB().QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, tbl.Name).Scan(&name)
		require.NoError(t, err, "table %s", tbl.Name)
	}
	for _, idx := range LLMRequestEventsTable.Indexes {
		var name string
		err := s.DB().QueryRow(`SELECT name FROM sqlite_master WHERE type = 'index' AND name = ?`, idx.Name).Scan(&name)
		require.NoError(t, err, "index %s", idx.Name)
	}
}

func TestEventRepo_UsageEmpty(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	byPurpose, err := s.EventRepo().LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	assert.Empty(t, byPurpose)

	byModel, err := s.EventRepo().LLMUsageByModel(ctx)
	require.NoError(t, err)
	assert.Empty(t, byModel)
}
