package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/Nyukimin/failguard/internal/application/form"
	"github.com/Nyukimin/failguard/internal/application/render"
	"github.com/Nyukimin/failguard/internal/application/ui"
	"github.com/Nyukimin/failguard/internal/domain/prediction"
	"github.com/Nyukimin/failguard/internal/domain/view"
	"github.com/Nyukimin/failguard/internal/infrastructure/clipboard"
	"github.com/Nyukimin/failguard/internal/infrastructure/dom"
)

// ErrAborted は対話入力が中断された場合のエラー
var ErrAborted = errors.New("input aborted")

// resultPage はクリップボード用に結果を描画する最小のページ
const resultPage = `<!DOCTYPE html><html><body><main>
<section id="resultSection" style="display: none;"><div id="resultContent"></div></section>
</main></body></html>`

// Prompter は1行ずつ入力を読む（readline.Instance が満たす）
type Prompter interface {
	SetPrompt(prompt string)
	Readline() (string, error)
	Close() error
}

// NewReadlinePrompter はreadlineによるPrompterを作成
func NewReadlinePrompter(in io.Reader, out io.Writer) (Prompter, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		Stdin:           io.NopCloser(in),
		Stdout:          out,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start interactive input: %w", err)
	}
	return rl, nil
}

type predictOptions struct {
	values      map[string]*string
	example     bool
	interactive bool
	copy        bool
	rawJSON     bool
}

// flagName はフィールド名をフラグ名に変換する（code_churn → code-churn）
func flagName(field string) string {
	return strings.ReplaceAll(field, "_", "-")
}

func newPredictCmd(app *App) *cobra.Command {
	opts := &predictOptions{values: make(map[string]*string, len(prediction.FieldNames))}

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Run a failure-risk prediction for one module",
		Example: `  failguard predict --example
  failguard predict --loc 450 --wmc 14 --rfc 22 --cbo 7 --lcom 0.55 --code-churn 12 --num-developers 4 --past-defects 3
  failguard predict --interactive --copy`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			values := opts.collect(cmd)

			if opts.interactive {
				newPrompter := app.newPrompter
				if newPrompter == nil {
					newPrompter = NewReadlinePrompter
				}
				p, err := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
				if err != nil {
					return err
				}
				defer p.Close()

				if err := promptFields(p, app.Printer, values); err != nil {
					return err
				}
			}

			req := prediction.ParseRequest(func(name string) string { return values[name] })
			if err := req.Validate(); err != nil {
				return fmt.Errorf("%s (%w)", form.InvalidInputMessage, err)
			}

			result, err := app.Client.Predict(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("%s (%w)", form.ConnectFailureMessage, err)
			}
			if !result.Success {
				msg := result.Error
				if msg == "" {
					msg = form.PredictionFailedText
				}
				return errors.New(msg)
			}

			if opts.rawJSON {
				body, err := result.JSON()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(body))
			} else {
				app.Printer.Result(result, req)
			}

			if opts.copy {
				clip := app.clipboard
				if clip == nil {
					clip = clipboard.System{}
				}
				if err := copyResult(result, req, clip, app.Printer); err != nil {
					app.Printer.Warning("%v", err)
				}
			}
			return nil
		},
	}

	for _, name := range prediction.FieldNames {
		opts.values[name] = cmd.Flags().String(flagName(name), "", prediction.FieldDescriptions[name])
	}
	cmd.Flags().BoolVar(&opts.example, "example", false, "use the example module for any metric not given")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "prompt for each metric")
	cmd.Flags().BoolVar(&opts.copy, "copy", false, "copy the result text to the clipboard")
	cmd.Flags().BoolVar(&opts.rawJSON, "json", false, "print the raw result JSON")

	return cmd
}

// collect はフラグ値を集める。--example なら未指定の項目をデモ値で埋める。
func (o *predictOptions) collect(cmd *cobra.Command) map[string]string {
	values := make(map[string]string, len(prediction.FieldNames))
	example := prediction.ExampleRequest()

	for _, name := range prediction.FieldNames {
		if cmd.Flags().Changed(flagName(name)) {
			values[name] = *o.values[name]
			continue
		}
		if o.example {
			v, _ := example.Value(name)
			values[name] = prediction.FormatNumber(v)
		}
	}
	return values
}

// promptFields は各項目を対話的に入力させる。空入力は既存値を採用する。
func promptFields(p Prompter, printer *Printer, values map[string]string) error {
	for _, name := range prediction.FieldNames {
		for {
			current := values[name]
			prompt := prediction.FieldLabels[name]
			if current != "" {
				prompt += " [" + current + "]"
			}
			p.SetPrompt(prompt + ": ")

			line, err := p.Readline()
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				return ErrAborted
			}
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}

			line = strings.TrimSpace(line)
			if line == "" {
				line = current
			}

			if _, err := prediction.ParseField(name, line); err != nil {
				printer.Warning("%s: %s", prediction.FieldDescriptions[name], err)
				continue
			}
			values[name] = line
			break
		}
	}
	return nil
}

// copyResult は結果カードを描画し、そのテキストをクリップボードへコピーする
func copyResult(result prediction.Result, req prediction.Request, clip view.Clipboard, n view.Notifier) error {
	doc, err := dom.ParseString(resultPage)
	if err != nil {
		return err
	}

	rv, err := view.BindResultView(doc)
	if err != nil {
		return err
	}

	if err := render.NewRenderer(rv).DisplayResult(result, req); err != nil {
		return err
	}

	return ui.CopyResults(doc, view.IDResultContent, clip, n)
}
