package prediction

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidInput は入力メトリクスが制約を満たさない場合のエラー
var ErrInvalidInput = errors.New("invalid input")

// フィールド名（APIのJSONキーおよびフォームの要素IDと一致）
const (
	FieldLOC           = "loc"
	FieldWMC           = "wmc"
	FieldRFC           = "rfc"
	FieldCBO           = "cbo"
	FieldLCOM          = "lcom"
	FieldCodeChurn     = "code_churn"
	FieldNumDevelopers = "num_developers"
	FieldPastDefects   = "past_defects"
)

// FieldNames は全フィールドの固定順序
var FieldNames = []string{
	FieldLOC,
	FieldWMC,
	FieldRFC,
	FieldCBO,
	FieldLCOM,
	FieldCodeChurn,
	FieldNumDevelopers,
	FieldPastDefects,
}

// FieldLabels は入力エコー表示用のラベル
var FieldLabels = map[string]string{
	FieldLOC:           "Lines of Code (LOC)",
	FieldWMC:           "Weighted Methods per Class (WMC)",
	FieldRFC:           "Response for a Class (RFC)",
	FieldCBO:           "Coupling Between Objects (CBO)",
	FieldLCOM:          "Lack of Cohesion (LCOM)",
	FieldCodeChurn:     "Code Churn",
	FieldNumDevelopers: "Number of Developers",
	FieldPastDefects:   "Past Defects",
}

// FieldDescriptions はツールチップ用の短い説明
var FieldDescriptions = map[string]string{
	FieldLOC:           "Lines of Code",
	FieldWMC:           "Weighted Methods per Class",
	FieldRFC:           "Response for a Class",
	FieldCBO:           "Coupling Between Objects",
	FieldLCOM:          "Lack of Cohesion (0 to 1)",
	FieldCodeChurn:     "Code Churn (changes)",
	FieldNumDevelopers: "Number of Developers (at least 1)",
	FieldPastDefects:   "Past Defects",
}

// Request は予測リクエスト（1回の送信ごとに生成される）
type Request struct {
	LOC           float64 `json:"loc"`
	WMC           float64 `json:"wmc"`
	RFC           float64 `json:"rfc"`
	CBO           float64 `json:"cbo"`
	LCOM          float64 `json:"lcom"`
	CodeChurn     float64 `json:"code_churn"`
	NumDevelopers float64 `json:"num_developers"`
	PastDefects   float64 `json:"past_defects"`
}

// FieldValue はフィールド名・ラベル・値の組
type FieldValue struct {
	Name  string
	Label string
	Value float64
}

// ParseRequest はlookupで取得した文字列を数値に変換する。
// 空文字や数値として解釈できない値はNaNになり、Validateで拒否される。
func ParseRequest(lookup func(name string) string) Request {
	var r Request
	for _, name := range FieldNames {
		r.set(name, parseNumber(lookup(name)))
	}
	return r
}

func parseNumber(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// Validate は全フィールドの制約を検証する
func (r Request) Validate() error {
	for _, fv := range r.Fields() {
		if err := ValidateField(fv.Name, fv.Value); err != nil {
			return err
		}
	}
	return nil
}

// ValidateField は1フィールドの値を検証する
func ValidateField(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s is not a number", ErrInvalidInput, name)
	}
	if v < 0 {
		return fmt.Errorf("%w: %s must not be negative", ErrInvalidInput, name)
	}

	switch name {
	case FieldNumDevelopers:
		if v < 1 {
			return fmt.Errorf("%w: %s must be at least 1", ErrInvalidInput, name)
		}
	case FieldLCOM:
		if v > 1 {
			return fmt.Errorf("%w: %s must not exceed 1", ErrInvalidInput, name)
		}
	}
	return nil
}

// ParseField は1フィールドの文字列を数値に変換して検証する
func ParseField(name, s string) (float64, error) {
	v := parseNumber(s)
	if err := ValidateField(name, v); err != nil {
		return 0, err
	}
	return v, nil
}

// Fields はFieldNames順にフィールドを返す
func (r Request) Fields() []FieldValue {
	fields := make([]FieldValue, 0, len(FieldNames))
	for _, name := range FieldNames {
		v, _ := r.Value(name)
		fields = append(fields, FieldValue{Name: name, Label: FieldLabels[name], Value: v})
	}
	return fields
}

// Value はフィールド名に対応する値を返す
func (r Request) Value(name string) (float64, bool) {
	switch name {
	case FieldLOC:
		return r.LOC, true
	case FieldWMC:
		return r.WMC, true
	case FieldRFC:
		return r.RFC, true
	case FieldCBO:
		return r.CBO, true
	case FieldLCOM:
		return r.LCOM, true
	case FieldCodeChurn:
		return r.CodeChurn, true
	case FieldNumDevelopers:
		return r.NumDevelopers, true
	case FieldPastDefects:
		return r.PastDefects, true
	}
	return 0, false
}

func (r *Request) set(name string, v float64) {
	switch name {
	case FieldLOC:
		r.LOC = v
	case FieldWMC:
		r.WMC = v
	case FieldRFC:
		r.RFC = v
	case FieldCBO:
		r.CBO = v
	case FieldLCOM:
		r.LCOM = v
	case FieldCodeChurn:
		r.CodeChurn = v
	case FieldNumDevelopers:
		r.NumDevelopers = v
	case FieldPastDefects:
		r.PastDefects = v
	}
}

// ExampleRequest はデモ用の固定入力値
func ExampleRequest() Request {
	return Request{
		LOC:           450,
		WMC:           14,
		RFC:           22,
		CBO:           7,
		LCOM:          0.55,
		CodeChurn:     12,
		NumDevelopers: 4,
		PastDefects:   3,
	}
}

// FormatNumber は数値を最短の10進表記に整形する（450, 0.55 など）
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
