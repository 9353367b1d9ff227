package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathquiz/internal/questions"
)

var facetsCmd = &cobra.Command{
	Use:   "facets",
	Short: "Print the grades, subjects and topics in the question bank",
	RunE: func(cmd *cobra.Command, args []string) error {
		bank, err := questions.Load(cmd.Context(), nil, cfg.BankURL())
		if err != nil {
			return err
		}
		fmt.Printf("%d questions\n", len(bank))

		for _, f := range []struct {
			name  string
			field questions.Field
		}{
			{"Grades", questions.FieldGrade},
			{"Subjects", questions.FieldSubject},
			{"Topics", questions.FieldTopic},
		} {
			values := questions.UniqueValues(bank, f.field, nil)
			if len(values) == 0 {
				values = []string{"-"}
			}
			fmt.Printf("%-9s %s\n", f.name+":", strings.Join(values, ", "))
		}
		return nil
	},
}
