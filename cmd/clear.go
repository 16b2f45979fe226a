package cmd

import (
	"context"
	"fmt"

	"github.com/creativehub205/ladies-tailor-shop/internal/service"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var confirmClear bool

// clearCmd represents the clear command
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete shop data",
	Long: `Deletes orders, customers or both, together with the measurements and
design image files of the removed orders. Requires --yes.`,
}

var clearOrdersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Delete all orders and their measurements",
	Run: func(cmd *cobra.Command, args []string) {
		runClear(func(ctx context.Context, svc service.Service) (*service.ClearReport, error) {
			return svc.ClearOrders(ctx)
		})
	},
}

var clearCustomersCmd = &cobra.Command{
	Use:   "customers",
	Short: "Delete all customers; refused while orders exist",
	Run: func(cmd *cobra.Command, args []string) {
		runClear(func(ctx context.Context, svc service.Service) (*service.ClearReport, error) {
			return svc.ClearCustomers(ctx, false)
		})
	},
}

var clearAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Delete all orders, measurements and customers",
	Run: func(cmd *cobra.Command, args []string) {
		runClear(func(ctx context.Context, svc service.Service) (*service.ClearReport, error) {
			return svc.ClearCustomers(ctx, true)
		})
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
	clearCmd.AddCommand(clearOrdersCmd)
	clearCmd.AddCommand(clearCustomersCmd)
	clearCmd.AddCommand(clearAllCmd)

	clearCmd.PersistentFlags().BoolVar(&confirmClear, "yes", false, "Confirm the deletion")
}

func runClear(clear func(ctx context.Context, svc service.Service) (*service.ClearReport, error)) {
	if !confirmClear {
		log.Fatal("Refusing to delete data without --yes")
	}

	svc, closeDB := offlineService()
	defer closeDB()

	report, err := clear(context.Background(), svc)
	if errors.Is(err, service.ErrCustomerHasOrders) {
		log.Fatal("Orders still exist; run 'clear orders' first or use 'clear all'")
	}
	if err != nil {
		log.Fatalf("Failed to clear data: %v", err)
	}

	fmt.Println("=================================================================")
	fmt.Println("Data cleared")
	fmt.Println("=================================================================")
	fmt.Printf("Orders:        %d\n", report.Orders)
	fmt.Printf("Measurements:  %d\n", report.Measurements)
	fmt.Printf("Customers:     %d\n", report.Customers)
	fmt.Printf("Images:        %d\n", report.ImagesRemoved)
}
