package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/portfolio-admin/skills-backend/internal/repository"
	"github.com/portfolio-admin/skills-backend/internal/service"
)

func newRepackCmd() *cobra.Command {
	var ownerFlag string
	var all bool

	cmd := &cobra.Command{
		Use:   "repack",
		Short: "Привести позиции навыков к 1..N в каждой категории",
		Long: `Перенумеровывает навыки каждой категории по сохранённому порядку.

Нужен после ручных правок в базе. Порядок определяется order_index,
при совпадении - датой создания.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (ownerFlag == "") == !all {
				return fmt.Errorf("укажите ровно один из флагов --owner или --all")
			}

			_, conn, err := openDatabase(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = conn.Close() }()

			repo := repository.NewSkillRepository(conn)
			svc := service.NewSkillService(repo)

			var owners []uuid.UUID
			if all {
				if owners, err = repo.ListOwners(cmd.Context()); err != nil {
					return err
				}
			} else {
				ownerID, err := uuid.Parse(ownerFlag)
				if err != nil {
					return fmt.Errorf("--owner: %w", err)
				}
				owners = []uuid.UUID{ownerID}
			}

			total := 0
			for _, ownerID := range owners {
				changed, err := svc.Repack(cmd.Context(), ownerID)
				if err != nil {
					return fmt.Errorf("repack %s: %w", ownerID, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rows renumbered\n", ownerID, changed)
				total += changed
			}

			fmt.Fprintf(cmd.OutOrStdout(), "done: %d owners, %d rows\n", len(owners), total)
			return nil
		},
	}

	cmd.Flags().StringVar(&ownerFlag, "owner", "", "идентификатор владельца")
	cmd.Flags().BoolVar(&all, "all", false, "обработать всех владельцев")
	return cmd
}
