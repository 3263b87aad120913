package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msuny-c/fdb-viewer/internal/domain/lookup"
	"github.com/msuny-c/fdb-viewer/internal/infra/source"
	apperrors "github.com/msuny-c/fdb-viewer/pkg/errors"
)

var errMiss = errors.New("no question matched")

func newAnswerCmd(app *cli) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "answer <question>",
		Short: "Print the answer to one question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			corpus, _, err := source.NewLoader(app.cfg.Lookup.Workers, app.logger).Load(cmd.Context(), app.cfg.Lookup.FDBDir)
			if err != nil {
				return err
			}
			svc := lookup.NewService(app.lookupConfig(), corpus, nil, nil, app.logger)
			answer, err := svc.Answer(cmd.Context(), strings.Join(args, " "))
			if apperrors.IsCode(err, lookup.CodeNoMatch) {
				fmt.Fprintln(cmd.ErrOrStderr(), "[miss] nothing matched")
				return errMiss
			}
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetEscapeHTML(false)
				return enc.Encode(answer)
			}
			if answer.Empty {
				fmt.Fprintf(cmd.ErrOrStderr(), "[warn] no answers for %s #%s\n", answer.Source, answer.QuestionID)
				return nil
			}
			fmt.Fprintln(out, answer.Text)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full lookup result as JSON")
	return cmd
}
