package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdmeta/internal/config"
	"git.home.luguber.info/inful/mdmeta/internal/errors"
	"git.home.luguber.info/inful/mdmeta/internal/metadata"
)

func TestUpdateRequiresAnAction(t *testing.T) {
	err := (&UpdateCmd{}).Run(&Global{}, &CLI{})
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryValidation))
}

func TestBuildFields(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		fields, err := buildFields(config.Default(), nil)
		require.NoError(t, err)
		assert.Nil(t, fields)
	})

	t.Run("cli pairs", func(t *testing.T) {
		fields, err := buildFields(config.Default(), []string{"Author=Alice", "team=docs"})
		require.NoError(t, err)
		assert.Equal(t, "Alice", fields.Get(metadata.FieldAuthor))
		assert.Equal(t, "docs", fields.Get("team"))
	})

	t.Run("value may contain equals", func(t *testing.T) {
		fields, err := buildFields(config.Default(), []string{"note=a=b"})
		require.NoError(t, err)
		assert.Equal(t, "a=b", fields.Get("note"))
	})

	t.Run("cli overrides config", func(t *testing.T) {
		cfg := config.Default()
		cfg.Author = "Config Author"
		cfg.Fields = map[string]string{"team": "platform"}

		fields, err := buildFields(cfg, []string{"author=CLI Author"})
		require.NoError(t, err)
		assert.Equal(t, "CLI Author", fields.Get(metadata.FieldAuthor))
		assert.Equal(t, "platform", fields.Get("team"))
	})

	t.Run("malformed pair", func(t *testing.T) {
		_, err := buildFields(config.Default(), []string{"no-equals"})
		require.Error(t, err)
		assert.True(t, errors.IsCategory(err, errors.CategoryValidation))

		_, err = buildFields(config.Default(), []string{"=value"})
		require.Error(t, err)
	})
}
