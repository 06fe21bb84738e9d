package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ap-reconciler/backend/config"
	"github.com/ap-reconciler/backend/internal/application/usecase/auth"
	"github.com/ap-reconciler/backend/internal/integration/adapters"
	"github.com/ap-reconciler/backend/internal/integration/entrypoint/dto"
	"github.com/ap-reconciler/backend/internal/integration/persistence"
)

func newReviewerCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "reviewer",
		Short: "Manage reviewer accounts",
	}
	c.AddCommand(newReviewerCreateCommand())
	return c
}

func newReviewerCreateCommand() *cobra.Command {
	var email, name, password string

	c := &cobra.Command{
		Use:   "create",
		Short: "Create a reviewer who can sign in to the workbench",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			database, err := openStore(config.Load())
			if err != nil {
				return err
			}
			defer closeStore(database)

			uc := auth.NewCreateReviewerUseCase(
				persistence.NewReviewerRepository(database.DB()),
				adapters.NewPasswordService(),
			)
			reviewer, err := uc.Execute(cmd.Context(), auth.CreateReviewerInput{
				Email:    email,
				Name:     name,
				Password: password,
			})
			if err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), dto.ToReviewerResponse(reviewer))
		},
	}

	c.Flags().StringVar(&email, "email", "", "reviewer email")
	c.Flags().StringVar(&name, "name", "", "display name")
	c.Flags().StringVar(&password, "password", "", "initial password")
	_ = c.MarkFlagRequired("email")
	_ = c.MarkFlagRequired("password")

	return c
}
