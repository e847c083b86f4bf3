package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/tripdesk/berlin-cli/internal/model"
)

func init() {
	reviewsAddCmd.Flags().String("author", "", "reviewer name")
	reviewsCmd.AddCommand(reviewsListCmd, reviewsAddCmd, reviewsPlacesCmd)
	rootCmd.AddCommand(reviewsCmd)
}

var reviewsCmd = &cobra.Command{
	Use:   "reviews",
	Short: "Manage the place review board",
}

var reviewsListCmd = &cobra.Command{
	Use:   "list <place>",
	Short: "List reviews for a place, oldest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		reviews, err := st.ListReviews(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "reviews list")
		}

		if len(reviews) == 0 {
			fmt.Fprintln(os.Stderr, "No reviews yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "WHEN\tAUTHOR\tCOMMENT")
		for _, r := range reviews {
			author := r.Author
			if author == "" {
				author = "anonymous"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.CreatedAt.Format("2006-01-02 15:04"), author, r.Comment)
		}
		return w.Flush()
	},
}

var reviewsAddCmd = &cobra.Command{
	Use:   "add <place> <comment>",
	Short: "Add a review for a place",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		author, _ := cmd.Flags().GetString("author")

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		review, err := st.AddReview(ctx, model.Review{
			Place:   args[0],
			Author:  author,
			Comment: args[1],
		})
		if err != nil {
			return eris.Wrap(err, "reviews add")
		}

		fmt.Printf("Added review %s for %s.\n", review.ID, review.Place)
		return nil
	},
}

var reviewsPlacesCmd = &cobra.Command{
	Use:   "places",
	Short: "List places that have reviews",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		places, err := st.ListPlaces(ctx)
		if err != nil {
			return eris.Wrap(err, "reviews places")
		}

		for _, p := range places {
			fmt.Println(p)
		}
		return nil
	},
}
