package domain_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/Rrens/notebooklm/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNotebookUpdate_Decode(t *testing.T) {
	tests := []struct {
		name             string
		body             string
		wantTitle        domain.Optional[string]
		wantDescription  domain.Optional[string]
		wantInstructions domain.Optional[string]
	}{
		{
			name:      "title only",
			body:      `{"title":"X"}`,
			wantTitle: domain.Some("X"),
		},
		{
			name:            "explicit null clears description",
			body:            `{"description":null}`,
			wantDescription: domain.Null[string](),
		},
		{
			name:             "all fields",
			body:             `{"title":"T","description":"D","instructions":"I"}`,
			wantTitle:        domain.Some("T"),
			wantDescription:  domain.Some("D"),
			wantInstructions: domain.Some("I"),
		},
		{
			name: "empty body",
			body: `{}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var u domain.NotebookUpdate
			require.NoError(t, json.Unmarshal([]byte(tt.body), &u))

			assert.Equal(t, tt.wantTitle, u.Title)
			assert.Equal(t, tt.wantDescription, u.Description)
			assert.Equal(t, tt.wantInstructions, u.Instructions)
		})
	}
}

func TestNotebookUpdate_Apply(t *testing.T) {
	base := func() *domain.Notebook {
		return &domain.Notebook{
			ID:           1,
			Title:        "Biology 101",
			Description:  strPtr("Cells"),
			Instructions: strPtr("Be brief"),
		}
	}

	t.Run("title only leaves other fields", func(t *testing.T) {
		n := base()
		domain.NotebookUpdate{Title: domain.Some("X")}.Apply(n)

		assert.Equal(t, "X", n.Title)
		assert.Equal(t, "Cells", *n.Description)
		assert.Equal(t, "Be brief", *n.Instructions)
	})

	t.Run("null clears description", func(t *testing.T) {
		n := base()
		domain.NotebookUpdate{Description: domain.Null[string]()}.Apply(n)

		assert.Equal(t, "Biology 101", n.Title)
		assert.Nil(t, n.Description)
		assert.Equal(t, "Be brief", *n.Instructions)
	})

	t.Run("empty patch is a no-op", func(t *testing.T) {
		n := base()
		u := domain.NotebookUpdate{}
		assert.True(t, u.IsEmpty())
		u.Apply(n)
		assert.Equal(t, base(), n)
	})
}

func TestNotebookUpdate_Validate(t *testing.T) {
	assert.NoError(t, domain.NotebookUpdate{Title: domain.Some("ok")}.Validate())
	assert.ErrorIs(t, domain.NotebookUpdate{Title: domain.Null[string]()}.Validate(), domain.ErrTitleRequired)
	assert.ErrorIs(t,
		domain.NotebookUpdate{Title: domain.Some(strings.Repeat("a", 256))}.Validate(),
		domain.ErrTitleTooLong,
	)
}

func TestNotebookCreate_TitleOrDefault(t *testing.T) {
	assert.Equal(t, domain.DefaultNotebookTitle, domain.NotebookCreate{}.TitleOrDefault())
	assert.Equal(t, "Biology 101", domain.NotebookCreate{Title: strPtr("Biology 101")}.TitleOrDefault())
}
