package cli

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/portfolio-admin/skills-backend/internal/repository"
	"github.com/portfolio-admin/skills-backend/internal/service"
)

func newListCmd() *cobra.Command {
	var ownerFlag string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Показать навыки владельца по категориям",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ownerID, err := uuid.Parse(ownerFlag)
			if err != nil {
				return fmt.Errorf("--owner: %w", err)
			}

			_, conn, err := openDatabase(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = conn.Close() }()

			board, err := service.NewSkillService(repository.NewSkillRepository(conn)).Board(cmd.Context(), ownerID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(board)
			}

			if board.Summary.Total == 0 {
				fmt.Fprintln(out, "No skills.")
				return nil
			}

			categories := make([]string, 0, len(board.Categories))
			for category := range board.Categories {
				categories = append(categories, category)
			}
			sort.Strings(categories)

			fmt.Fprintf(out, "SKILLS (%d in %d categories)\n", board.Summary.Total, len(categories))
			for _, category := range categories {
				fmt.Fprintf(out, "\n%s\n", category)
				for _, skill := range board.Categories[category] {
					fmt.Fprintf(out, "  %2d. %-30s %s\n", skill.OrderIndex, skill.Name, skill.Level)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&ownerFlag, "owner", "", "идентификатор владельца")
	cmd.Flags().BoolVar(&asJSON, "json", false, "вывести в JSON")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}
