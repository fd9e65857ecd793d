package knowledge

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const minimalProfile = `
subject: Ada
contact:
  name: Ada Lovelace
  location: London
  email: ada@example.com
  linkedin: linkedin.com/in/ada
roles:
  - company: Analytical Engines
    title: Programmer
    dates: 1842 - Present
    status: Current
skills:
  programming: [Notes, Algorithms]
  cloud: []
  math: [Calculus]
experience_highlights:
  math: 10+ years
  programming: 2 years
`

func TestDefaultProfile(t *testing.T) {
	kb, err := Default(zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "Frank", kb.Subject)
	cur, ok := kb.CurrentRole()
	require.True(t, ok)
	assert.Equal(t, "Northwind Health", cur.Company)

	past, ok := kb.LastPastRole()
	require.True(t, ok)
	assert.Equal(t, "Contoso Financial", past.Company)

	assert.NotEmpty(t, kb.Certifications)
	assert.Equal(t, "cloud", kb.Skills[0].Name, "skill order must follow the file")
}

func TestParseResolvesPlaceholders(t *testing.T) {
	t.Setenv("ADA_EMAIL", "countess@example.com")
	core, logs := observer.New(zapcore.WarnLevel)

	doc := strings.Replace(minimalProfile, "ada@example.com", "ENV::ADA_EMAIL", 1)
	doc = strings.Replace(doc, "linkedin.com/in/ada", "ENV::ADA_MISSING_LINK", 1)

	kb, err := Parse([]byte(doc), zap.New(core))
	require.NoError(t, err)

	assert.Equal(t, "countess@example.com", kb.Contact.Email)
	assert.Equal(t, "<ADA_MISSING_LINK not set>", kb.Contact.LinkedIn)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "ADA_MISSING_LINK", logs.All()[0].ContextMap()["var"])
}

func TestParseNumericEnvValueStaysString(t *testing.T) {
	t.Setenv("ADA_LOCATION", "1842")
	doc := strings.Replace(minimalProfile, "location: London", "location: ENV::ADA_LOCATION", 1)

	kb, err := Parse([]byte(doc), nil)
	require.NoError(t, err)
	assert.Equal(t, "1842", kb.Contact.Location)
}

func TestParseRejectsTwoCurrentRoles(t *testing.T) {
	doc := strings.Replace(minimalProfile, "    status: Current\n", "    status: Current\n  - company: Second\n    title: Again\n    status: Current\n", 1)

	_, err := Parse([]byte(doc), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most one role")
}

func TestParseRejectsUnknownStatus(t *testing.T) {
	doc := strings.Replace(minimalProfile, "status: Current", "status: Sabbatical", 1)
	_, err := Parse([]byte(doc), nil)
	require.Error(t, err)
}

func TestParseSchemaViolation(t *testing.T) {
	_, err := Parse([]byte("contact:\n  name: X\nroles: not-a-list\n"), nil)
	require.Error(t, err)

	var se *SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "roles", se.Fields[0].Field)
}

func TestParseEmpty(t *testing.T) {
	_, err := Parse([]byte(""), nil)
	assert.Error(t, err)
}

func TestLoadJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	body := `{"contact": {"name": "Grace Hopper"}, "roles": [], "skills": {"languages": ["COBOL"]}}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	kb, err := Load(path, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "Grace", kb.Subject)
	assert.Equal(t, []string{"COBOL"}, kb.Skills.All())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestCategoriesFind(t *testing.T) {
	kb, err := Parse([]byte(minimalProfile), nil)
	require.NoError(t, err)

	cat, ok := kb.Skills.Find("Programming")
	require.True(t, ok)
	assert.Equal(t, []string{"Notes", "Algorithms"}, cat.Skills)

	_, ok = kb.Skills.Find("tools")
	assert.False(t, ok)

	assert.Equal(t, []string{"Notes", "Algorithms", "Calculus"}, kb.Skills.All())
}

func TestHighlightsFindByContainment(t *testing.T) {
	h := Highlights{{Topic: "total_ba_experience", Duration: "6 years"}}
	got, ok := h.Find("ba")
	require.True(t, ok)
	assert.Equal(t, "6 years", got.Duration)
}

func TestJSONKeepsOrder(t *testing.T) {
	kb, err := Parse([]byte(minimalProfile), nil)
	require.NoError(t, err)

	out := kb.JSON()
	assert.Less(t, strings.Index(out, `"programming"`), strings.Index(out, `"math"`))
	assert.Less(t, strings.Index(out, `"10+ years"`), strings.Index(out, `"2 years"`))

	var generic map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &generic))
	assert.Equal(t, "Ada", generic["subject"])
}

func TestAchievementsTagged(t *testing.T) {
	kb, err := Default(nil)
	require.NoError(t, err)

	azure := kb.AchievementsTagged("AZURE")
	require.Len(t, azure, 1)
	assert.Contains(t, azure[0].Text, "Azure")

	assert.Len(t, kb.AchievementsTagged(), len(kb.Achievements))
	assert.Contains(t, kb.Tags(), "leadership")
}

func TestPassagesAndFlatten(t *testing.T) {
	kb, err := Default(nil)
	require.NoError(t, err)

	passages := kb.Passages()
	ids := map[string]bool{}
	for _, p := range passages {
		assert.False(t, ids[p.ID], "duplicate passage id %s", p.ID)
		ids[p.ID] = true
		assert.NotEmpty(t, p.Text)
	}
	assert.True(t, ids["role-0"])
	assert.True(t, ids["certification-1"])

	flat := kb.Flatten()
	assert.Contains(t, flat, "Certified Scrum Master")
	assert.Contains(t, flat, "Frank works as Senior Business Analyst")
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{
		"resume.yaml":              "x",
		"data/profile_frank.yml":   "x",
		"data/notes.yaml":          "x",
		"config/CV.json":           "x",
		"node_modules/resume.yaml": "x",
		".concierge/profile.yaml":  "x",
		"docs/resume_data.json":    "x",
		"docs/resume.md":           "x",
	}
	for name, body := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}

	found, err := Discover(root)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"config/CV.json",
		"data/profile_frank.yml",
		"docs/resume_data.json",
		"resume.yaml",
	}, found)
}
