package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Brings the database schema up to date: creates missing tables, rebuilds
the orders table from the legacy garment_type layout and repairs order
customer references. Safe to run repeatedly.`,
	Run: func(cmd *cobra.Command, args []string) {
		runMigration()
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

// runMigration executes the database migrations
func runMigration() {
	cfg := loadConfig()

	db, report := openDatabase(cfg)
	defer db.Close()

	fmt.Println("=================================================================")
	fmt.Println("Database migration completed")
	fmt.Println("=================================================================")
	fmt.Printf("Orders table rebuilt:      %t\n", report.OrdersMigrated)
	fmt.Printf("Rows copied:               %d\n", report.RowsCopied)
	fmt.Printf("Customer refs repaired:    %d\n", report.CustomerIDsRepaired)
	fmt.Printf("Orders still unresolved:   %d\n", report.UnresolvedOrders)
}
