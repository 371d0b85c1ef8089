// Package explain asks Gemini for a plain-language explanation of a
// workbook formula.
package explain

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"tipsterFmt/internal/excel"
	"tipsterFmt/internal/formula"
	"tipsterFmt/internal/layout"
	"tipsterFmt/internal/logger"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.0-flash-exp"

// DefaultTimeout bounds one explanation request.
const DefaultTimeout = 60 * time.Second

// ErrNoAPIKey is returned when no Gemini API key is available.
var ErrNoAPIKey = errors.New("gemini API key is required (set GEMINI_API_KEY)")

// FormulaContext is everything the prompt says about one cell.
type FormulaContext struct {
	File     string
	Sheet    string
	Cell     string
	Label    string
	Formula  string
	Value    string
	Analysis formula.Summary
	// Role describes the sheet, e.g. "input sheet feeding Mis_Picks_Dashboard".
	Role string
}

type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Explainer sends explanation requests to Gemini.
type Explainer struct {
	client  *genai.Client
	model   generator
	timeout time.Duration
}

// NewExplainer creates a Gemini client for the named model.
func NewExplainer(apiKey, modelName string, timeout time.Duration) (*Explainer, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	if modelName == "" {
		modelName = DefaultModel
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	logger.Info("Initializing formula explainer with Gemini API", "model", modelName)
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		logger.Error("Failed to create Gemini client", "error", err)
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.2)

	return &Explainer{client: client, model: model, timeout: timeout}, nil
}

// Close releases the client.
func (x *Explainer) Close() error {
	if x.client != nil {
		return x.client.Close()
	}
	return nil
}

// Explain returns the model's explanation of the cell's formula.
func (x *Explainer) Explain(ctx context.Context, fc FormulaContext) (string, error) {
	if fc.Formula == "" {
		return "", fmt.Errorf("%s!%s holds no formula", fc.Sheet, fc.Cell)
	}
	prompt := BuildPrompt(fc)
	logger.Debug("Explain prompt", "cell", fc.Sheet+"!"+fc.Cell, "length", len(prompt))

	ctx, cancel := context.WithTimeout(ctx, x.timeout)
	defer cancel()

	type apiResult struct {
		resp *genai.GenerateContentResponse
		err  error
	}
	resultChan := make(chan apiResult, 1)
	start := time.Now()
	go func() {
		resp, err := x.model.GenerateContent(ctx, genai.Text(prompt))
		resultChan <- apiResult{resp: resp, err: err}
	}()

	select {
	case result := <-resultChan:
		if result.err != nil {
			logger.Error("Gemini API request failed", "error", result.err, "duration", time.Since(start))
			return "", fmt.Errorf("failed to generate explanation: %w", result.err)
		}
		logger.Info("Received explanation from Gemini API", "duration", time.Since(start))
		return responseText(result.resp)
	case <-ctx.Done():
		logger.Error("Gemini API request timed out", "timeout", x.timeout)
		return "", fmt.Errorf("explanation request timed out after %v: %w", x.timeout, ctx.Err())
	}
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response generated from AI")
	}
	var b strings.Builder
	for i, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		} else {
			logger.Warn("Non-text part in response", "index", i, "type", fmt.Sprintf("%T", part))
		}
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", fmt.Errorf("no response generated from AI")
	}
	return out, nil
}

// BuildPrompt renders the request sent to the model.
func BuildPrompt(fc FormulaContext) string {
	var b strings.Builder
	b.WriteString(`You are helping a sports bettor understand the spreadsheet they use to track tips.
Explain in plain language, in at most five short sentences, what the formula below computes.
Mention which sheet and columns it reads, and what the user sees when the inputs are empty.

`)
	fmt.Fprintf(&b, "CELL: %s!%s\n", fc.Sheet, fc.Cell)
	if fc.Label != "" {
		fmt.Fprintf(&b, "COLUMN HEADER: %s\n", fc.Label)
	}
	if fc.Role != "" {
		fmt.Fprintf(&b, "SHEET ROLE: %s\n", fc.Role)
	}
	fmt.Fprintf(&b, "FORMULA: =%s\n", fc.Formula)
	if fc.Value != "" {
		fmt.Fprintf(&b, "CURRENT VALUE: %s\n", fc.Value)
	}
	if a := fc.Analysis; len(a.Functions)+len(a.Sheets)+len(a.Ranges) > 0 {
		b.WriteString("\nSTRUCTURE:\n")
		if len(a.Functions) > 0 {
			fmt.Fprintf(&b, "- functions: %s\n", strings.Join(a.Functions, ", "))
		}
		if len(a.Sheets) > 0 {
			fmt.Fprintf(&b, "- sheets: %s\n", strings.Join(a.Sheets, ", "))
		}
		if len(a.Ranges) > 0 {
			fmt.Fprintf(&b, "- ranges: %s\n", strings.Join(a.Ranges, ", "))
		}
	}
	b.WriteString(`
GLOSSARY:
- W/L/V/HW/HL: win, loss, void, half win, half loss
- stake: units risked on the pick; odds: decimal odds
- the dashboards aggregate one row per tipster
`)
	return b.String()
}

// ContextFor reads the cell named by ref ("Sheet!A1") and describes it.
func ContextFor(editor *excel.Editor, s layout.Schema, ref string) (FormulaContext, error) {
	r, ok := formula.ParseRef(ref)
	if i := strings.LastIndex(ref, "!"); !ok && i > 0 {
		// sheet names with spaces typed without quotes
		r, ok = formula.ParseRef(formula.Qualify(strings.Trim(ref[:i], "'"), ref[i+1:]))
	}
	if !ok || r.IsRange || r.Sheet == "" {
		return FormulaContext{}, fmt.Errorf("expected a single cell such as Realizadas!G7, got %q", ref)
	}
	if err := editor.RequireSheet(r.Sheet); err != nil {
		return FormulaContext{}, err
	}
	cell := fmt.Sprintf("%s%d", formula.Cell{Col: r.Start.Col}.String(), r.Start.Row)
	fc := FormulaContext{File: editor.Path(), Sheet: r.Sheet, Cell: cell}

	var err error
	if fc.Formula, err = editor.GetCellFormula(r.Sheet, cell); err != nil {
		return fc, err
	}
	if fc.Value, err = editor.GetCellValue(r.Sheet, cell); err != nil {
		return fc, err
	}
	fc.Analysis = formula.Analyze(fc.Formula)

	labelRow := 0
	if in, ok := s.InputFor(r.Sheet); ok {
		labelRow = s.HeaderRow
		fc.Role = "input sheet feeding " + in.Dashboard
	} else if d, ok := s.DashboardFor(r.Sheet); ok {
		labelRow = s.DashboardHeaderRow
		fc.Role = "dashboard aggregating " + d.Source
	}
	if labelRow > 0 && labelRow != r.Start.Row {
		label, err := editor.GetCellValue(r.Sheet, fmt.Sprintf("%s%d", formula.Cell{Col: r.Start.Col}.String(), labelRow))
		if err != nil {
			return fc, err
		}
		fc.Label = strings.TrimSpace(label)
	}
	return fc, nil
}

// APIKey reads the Gemini API key from the environment.
func APIKey() string {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		logger.Warn("GEMINI_API_KEY environment variable not set")
	}
	return apiKey
}
