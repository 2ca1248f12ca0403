package moderation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Censor_Masks_Matches(t *testing.T) {
	req := require.New(t)
	moderator, err := NewModerator([]string{"bad", "worse"}, '*')
	req.NoError(err)

	req.Equal("this is *** and *****", moderator.Censor("this is bad and worse"))
}

func Test_Censor_Is_Case_Insensitive(t *testing.T) {
	req := require.New(t)
	moderator, err := NewModerator([]string{"secret"}, '#')
	req.NoError(err)

	req.Equal("a ###### here", moderator.Censor("a SeCrEt here"))
}

func Test_Censor_Preserves_Clean_Text(t *testing.T) {
	req := require.New(t)
	moderator, err := NewModerator([]string{"bad"}, '*')
	req.NoError(err)

	clean := "perfectly fine sentence"
	req.Equal(clean, moderator.Censor(clean))
}

func Test_Censor_Handles_Unicode_Around_Matches(t *testing.T) {
	req := require.New(t)
	moderator, err := NewModerator([]string{"bad"}, '*')
	req.NoError(err)

	// Multi-byte runes before the match must not shift the masked span
	req.Equal("héllo *** wörld", moderator.Censor("héllo bad wörld"))
}

func Test_Load_Wordlist_Skips_Blanks_And_Comments(t *testing.T) {
	req := require.New(t)

	content := "# banned terms\nbad\n\n  worse  \n# trailing comment\n"
	words := LoadWordlist(content)
	req.Equal([]string{"bad", "worse"}, words)
}
