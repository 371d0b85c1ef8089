package excel

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Conditional format fills.
const (
	LightRed   = "FFC7CE"
	LightGreen = "C6EFCE"
)

// EqualsRule fills a cell whose value equals Value.
type EqualsRule struct {
	Value string
	Fill  string
}

// SetSignFormat colours negative values light red and positive values light
// green. Rules already on the range are replaced.
func (e *Editor) SetSignFormat(sheet, rangeRef string) error {
	neg, err := e.conditionalFill(LightRed)
	if err != nil {
		return sheetErr(sheet, "format", err)
	}
	pos, err := e.conditionalFill(LightGreen)
	if err != nil {
		return sheetErr(sheet, "format", err)
	}
	return e.setConditionalFormat(sheet, rangeRef, []excelize.ConditionalFormatOptions{
		{Type: "cell", Criteria: "less than", Format: &neg, Value: "0"},
		{Type: "cell", Criteria: "greater than", Format: &pos, Value: "0"},
	})
}

// SetEqualsFormat fills cells matching each rule's text. Rules already on
// the range are replaced.
func (e *Editor) SetEqualsFormat(sheet, rangeRef string, rules ...EqualsRule) error {
	opts := make([]excelize.ConditionalFormatOptions, 0, len(rules))
	for _, r := range rules {
		id, err := e.conditionalFill(r.Fill)
		if err != nil {
			return sheetErr(sheet, "format", err)
		}
		opts = append(opts, excelize.ConditionalFormatOptions{
			Type: "cell", Criteria: "equal to", Format: &id, Value: `"` + r.Value + `"`,
		})
	}
	return e.setConditionalFormat(sheet, rangeRef, opts)
}

func (e *Editor) setConditionalFormat(sheet, rangeRef string, opts []excelize.ConditionalFormatOptions) error {
	if err := e.file.UnsetConditionalFormat(sheet, rangeRef); err != nil {
		return sheetErr(sheet, "format", err)
	}
	return sheetErr(sheet, "format", e.file.SetConditionalFormat(sheet, rangeRef, opts))
}

func (e *Editor) conditionalFill(color string) (int, error) {
	if id, ok := e.dxfs[color]; ok {
		return id, nil
	}
	id, err := e.file.NewConditionalStyle(&excelize.Style{Fill: *SolidFill(color)})
	if err != nil {
		return 0, err
	}
	e.dxfs[color] = id
	return id, nil
}

// ConditionalFormats returns the conditional format rules of the sheet keyed by range
func (e *Editor) ConditionalFormats(sheet string) (map[string][]excelize.ConditionalFormatOptions, error) {
	return e.file.GetConditionalFormats(sheet)
}

// ListValidation is a dropdown on a range. Exactly one of Source and Items
// is set: Source is a range reference such as 'Base datos'!$G$2:$G$4,
// Items an inline list.
type ListValidation struct {
	Sqref        string
	Source       string
	Items        []string
	ErrorTitle   string
	ErrorMessage string
}

// SetListValidation adds the dropdown, replacing any rule already on the
// same cells.
func (e *Editor) SetListValidation(sheet string, v ListValidation) error {
	if err := e.file.DeleteDataValidation(sheet, v.Sqref); err != nil {
		return sheetErr(sheet, "validation", err)
	}
	dv := excelize.NewDataValidation(true)
	dv.SetSqref(v.Sqref)
	switch {
	case v.Source != "":
		dv.SetSqrefDropList(v.Source)
	case len(v.Items) > 0:
		if err := dv.SetDropList(v.Items); err != nil {
			return sheetErr(sheet, "validation", err)
		}
	default:
		return sheetErr(sheet, "validation", fmt.Errorf("%s: empty list", v.Sqref))
	}
	if v.ErrorTitle != "" || v.ErrorMessage != "" {
		dv.SetError(excelize.DataValidationErrorStyleStop, v.ErrorTitle, v.ErrorMessage)
	}
	return sheetErr(sheet, "validation", e.file.AddDataValidation(sheet, dv))
}

// Validation is a data validation rule read back from a sheet.
type Validation struct {
	Sqref        string   `json:"sqref" yaml:"sqref"`
	Type         string   `json:"type" yaml:"type"`
	Source       string   `json:"source,omitempty" yaml:"source,omitempty"`
	Items        []string `json:"items,omitempty" yaml:"items,omitempty"`
	ErrorTitle   string   `json:"error_title,omitempty" yaml:"error_title,omitempty"`
	ErrorMessage string   `json:"error_message,omitempty" yaml:"error_message,omitempty"`
}

// Validations lists the sheet's data validations with the list source
// split into either a range reference or inline items.
func (e *Editor) Validations(sheet string) ([]Validation, error) {
	dvs, err := e.file.GetDataValidations(sheet)
	if err != nil {
		return nil, sheetErr(sheet, "validation", err)
	}
	out := make([]Validation, 0, len(dvs))
	for _, dv := range dvs {
		v := Validation{Sqref: dv.Sqref, Type: dv.Type}
		src := normaliseFormula(dv.Formula1)
		if strings.HasPrefix(src, `"`) && strings.HasSuffix(src, `"`) && len(src) >= 2 {
			v.Items = strings.Split(src[1:len(src)-1], ",")
		} else {
			v.Source = src
		}
		if dv.ErrorTitle != nil {
			v.ErrorTitle = *dv.ErrorTitle
		}
		if dv.Error != nil {
			v.ErrorMessage = *dv.Error
		}
		out = append(out, v)
	}
	return out, nil
}

// ValidationAt returns the validation covering cell, if any
func (e *Editor) ValidationAt(sheet, cell string) (Validation, bool, error) {
	vs, err := e.Validations(sheet)
	if err != nil {
		return Validation{}, false, err
	}
	for _, v := range vs {
		if Contains(v.Sqref, cell) {
			return v, true, nil
		}
	}
	return Validation{}, false, nil
}

func normaliseFormula(f string) string {
	f = strings.TrimSpace(f)
	f = strings.TrimPrefix(f, "<formula1>")
	f = strings.TrimSuffix(f, "</formula1>")
	f = strings.NewReplacer("&quot;", `"`, "&apos;", "'", "&lt;", "<", "&gt;", ">", "&amp;", "&").Replace(f)
	return strings.TrimPrefix(f, "=")
}
