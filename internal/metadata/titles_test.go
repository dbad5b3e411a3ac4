package metadata

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lehigh-university-libraries/ftva-etl/internal/marc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeTitles(t *testing.T) {
	tests := []struct {
		name     string
		f245     marc.Field
		isSeries bool
		want     Titles
	}{
		{
			name: "main title only",
			f245: field("245", "1", "0", "a", "Main Title /", "c", "directed by Someone."),
			want: Titles{Title: "Main Title"},
		},
		{
			name:     "main title only, series flag ignored",
			f245:     field("245", "1", "0", "a", "Main Title"),
			isSeries: true,
			want:     Titles{Title: "Main Title"},
		},
		{
			name: "remainder of title",
			f245: field("245", "1", "0", "a", "Main Title :", "b", "Remainder of Title /"),
			want: Titles{Title: "Main Title. Remainder of Title"},
		},
		{
			name: "number without name, not series",
			f245: field("245", "0", "0", "a", "Main Title.", "n", "Number of Part . "),
			want: Titles{Title: "Main Title. Number of Part"},
		},
		{
			name:     "number without name, series",
			f245:     field("245", "0", "0", "a", "Main Title.", "n", "Number of Part . "),
			isSeries: true,
			want: Titles{
				Title:        "Main Title. Number of Part",
				SeriesTitle:  "Main Title",
				EpisodeTitle: "Number of Part",
			},
		},
		{
			name: "name without number",
			f245: field("245", "0", "0", "a", "Main Title.", "p", "[Name of Part]"),
			want: Titles{
				Title:        "Main Title. Name of Part",
				SeriesTitle:  "Main Title",
				EpisodeTitle: "Name of Part",
			},
		},
		{
			name: "name and number",
			f245: field("245", "0", "0", "a", "Main Title.", "n", "Number of Part.", "p", "Name of Part."),
			want: Titles{
				Title:        "Main Title. Name of Part. Number of Part",
				SeriesTitle:  "Main Title",
				EpisodeTitle: "Name of Part. Number of Part",
			},
		},
		{
			name:     "remainder carried into series title",
			f245:     field("245", "0", "0", "a", "Main Title :", "b", "Remainder of Title.", "p", "Name of Part"),
			isSeries: true,
			want: Titles{
				Title:        "Main Title. Remainder of Title. Name of Part",
				SeriesTitle:  "Main Title. Remainder of Title",
				EpisodeTitle: "Name of Part",
			},
		},
		{
			name: "first of repeated subfields",
			f245: field("245", "0", "0", "a", "First", "p", "Part one", "p", "Part two"),
			want: Titles{
				Title:        "First. Part one",
				SeriesTitle:  "First",
				EpisodeTitle: "Part one",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComposeTitles(marc.NewRecord(tt.f245), tt.isSeries)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComposeTitlesErrors(t *testing.T) {
	tests := []struct {
		name   string
		fields []marc.Field
		want   error
	}{
		{
			name:   "no 245",
			fields: []marc.Field{marc.NewControlField("001", "991"), field("246", "3", " ", "a", "Alt")},
			want:   ErrMissingTitleStatement,
		},
		{
			name:   "no $a",
			fields: []marc.Field{marc.NewControlField("001", "991"), field("245", "0", "0", "p", "Part")},
			want:   ErrMissingMainTitle,
		},
		{
			name:   "$a is only punctuation",
			fields: []marc.Field{marc.NewControlField("001", "991"), field("245", "0", "0", "a", " [ ] /")},
			want:   ErrMissingMainTitle,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComposeTitles(marc.NewRecord(tt.fields...), false)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, IsTitleError(err))

			var te *TitleError
			require.True(t, errors.As(err, &te))
			assert.Equal(t, "991", te.RecordID)
		})
	}
}

func TestIsTitleErrorWrapped(t *testing.T) {
	err := fmt.Errorf("compose: %w", &TitleError{RecordID: "1", Err: ErrMissingMainTitle})
	assert.True(t, IsTitleError(err))
	assert.False(t, IsTitleError(errors.New("other")))
}

func TestAlternativeTitles(t *testing.T) {
	rec := marc.NewRecord(
		field("245", "0", "0", "a", "Main"),
		field("246", "0", " ", "a", "Portion title /"),
		field("246", "1", " ", "a", "Skipped first indicator"),
		field("246", "2", " ", "a", "Distinctive title"),
		field("246", "3", "0", "a", "Skipped second indicator"),
		field("246", "3", " ", "a", "Other title :", "a", "Second value"),
		field("246", "3", " ", "i", "No $a"),
	)

	titles, err := ComposeTitles(rec, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Portion title", "Distinctive title", "Other title", "Second value"}, titles.AlternativeTitles)

	out := titles.Record()
	assert.Equal(t, []string{KeyTitle, KeyAlternativeTitles}, out.Keys())
}

func TestTitlesRecordOmitsEmptyKeys(t *testing.T) {
	r := Titles{Title: "Only"}.Record()
	assert.Equal(t, []string{KeyTitle}, r.Keys())

	r = Titles{Title: "T. E", SeriesTitle: "T", EpisodeTitle: "E"}.Record()
	assert.Equal(t, []string{KeyTitle, KeySeriesTitle, KeyEpisodeTitle}, r.Keys())
}

func TestComposeTitlesFromMnemonic(t *testing.T) {
	rec := mustMnemonic(t, "=001  99123\n=245  00$aThe serial :$bthe story.$nEpisode 3.\n")
	titles, err := ComposeTitles(rec, true)
	require.NoError(t, err)
	assert.Equal(t, "The serial. the story. Episode 3", titles.Title)
	assert.Equal(t, "The serial. the story", titles.SeriesTitle)
	assert.Equal(t, "Episode 3", titles.EpisodeTitle)
	assert.Nil(t, titles.AlternativeTitles)
}
