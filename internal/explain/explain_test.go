package explain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tipsterFmt/internal/excel"
	"tipsterFmt/internal/formula"
	"tipsterFmt/internal/layout"
	"tipsterFmt/internal/seed"
)

type fakeModel struct {
	reply  string
	err    error
	block  bool
	prompt string
}

func (f *fakeModel) GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	if len(parts) > 0 {
		if t, ok := parts[0].(genai.Text); ok {
			f.prompt = string(t)
		}
	}
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text("  " + f.reply + "\n")}},
		}},
	}, nil
}

func sample() FormulaContext {
	f := `IFERROR(($I$2/VLOOKUP(B7,Mis_Picks_Dashboard!$A$3:$W$100,2,FALSE))*C7,"")`
	return FormulaContext{
		Sheet:    layout.SheetRealizadas,
		Cell:     "G7",
		Label:    "CANTIDAD",
		Formula:  f,
		Analysis: formula.Analyze(f),
		Role:     "input sheet feeding Mis_Picks_Dashboard",
	}
}

func TestNewExplainer_NoKey(t *testing.T) {
	_, err := NewExplainer("", "", 0)
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt(sample())
	assert.Contains(t, p, "CELL: Realizadas!G7")
	assert.Contains(t, p, "COLUMN HEADER: CANTIDAD")
	assert.Contains(t, p, "FORMULA: =IFERROR(")
	assert.Contains(t, p, "- functions: IFERROR, VLOOKUP")
	assert.Contains(t, p, "- sheets: Mis_Picks_Dashboard")
	assert.NotContains(t, p, "CURRENT VALUE")
}

func TestExplain(t *testing.T) {
	m := &fakeModel{reply: "Stake in euros."}
	x := &Explainer{model: m, timeout: time.Second}

	got, err := x.Explain(context.Background(), sample())
	require.NoError(t, err)
	assert.Equal(t, "Stake in euros.", got)
	assert.Contains(t, m.prompt, "VLOOKUP")
}

func TestExplain_Errors(t *testing.T) {
	x := &Explainer{model: &fakeModel{err: errors.New("quota")}, timeout: time.Second}
	_, err := x.Explain(context.Background(), sample())
	assert.ErrorContains(t, err, "quota")

	x = &Explainer{model: &fakeModel{block: true}, timeout: 20 * time.Millisecond}
	_, err = x.Explain(context.Background(), sample())
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	x = &Explainer{model: &fakeModel{reply: ""}, timeout: time.Second}
	_, err = x.Explain(context.Background(), sample())
	assert.Error(t, err)

	_, err = x.Explain(context.Background(), FormulaContext{Sheet: "S", Cell: "A1"})
	assert.ErrorContains(t, err, "holds no formula")
}

func TestContextFor(t *testing.T) {
	f, err := seed.Build()
	require.NoError(t, err)
	e := excel.Wrap(f)
	defer e.Close()
	s := layout.Default()

	fc, err := ContextFor(e, s, "Realizadas!G7")
	require.NoError(t, err)
	assert.Equal(t, "G7", fc.Cell)
	assert.Equal(t, "CANTIDAD", fc.Label)
	assert.Contains(t, fc.Formula, "VLOOKUP")
	assert.Equal(t, "input sheet feeding Mis_Picks_Dashboard", fc.Role)

	fc, err = ContextFor(e, s, "Lanzadas Tipster!$F$8")
	require.NoError(t, err)
	assert.Equal(t, layout.SheetLanzadas, fc.Sheet)
	assert.Equal(t, "F8", fc.Cell)

	fc, err = ContextFor(e, s, "Mis_Picks_Dashboard!C3")
	require.NoError(t, err)
	assert.Equal(t, "Benficio UDS", fc.Label)
	assert.Equal(t, "dashboard aggregating Realizadas", fc.Role)

	_, err = ContextFor(e, s, "G7")
	assert.Error(t, err)
	_, err = ContextFor(e, s, "Realizadas!A1:B2")
	assert.Error(t, err)
	_, err = ContextFor(e, s, "Nope!A1")
	assert.ErrorIs(t, err, excel.ErrSheetNotFound)
}
