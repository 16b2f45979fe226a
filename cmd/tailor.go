package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/creativehub205/ladies-tailor-shop/internal/service"
	"github.com/creativehub205/ladies-tailor-shop/internal/session"

	"github.com/spf13/cobra"
)

var (
	tailorUsername string
	tailorPassword string
	tailorShopName string
)

// tailorCmd represents the tailor command
var tailorCmd = &cobra.Command{
	Use:   "tailor",
	Short: "Manage tailor accounts",
	Long:  `Create and list the accounts that can log in to the shop, and reset their passwords.`,
}

// createTailorCmd represents the create command
var createTailorCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a tailor account",
	Run: func(cmd *cobra.Command, args []string) {
		createTailor()
	},
}

// listTailorsCmd represents the list command
var listTailorsCmd = &cobra.Command{
	Use:   "list",
	Short: "List all tailor accounts",
	Run: func(cmd *cobra.Command, args []string) {
		listTailors()
	},
}

// passwdCmd represents the passwd command
var passwdCmd = &cobra.Command{
	Use:   "passwd [username]",
	Short: "Set a new password for a tailor account",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		changePassword(args[0])
	},
}

func init() {
	rootCmd.AddCommand(tailorCmd)
	tailorCmd.AddCommand(createTailorCmd)
	tailorCmd.AddCommand(listTailorsCmd)
	tailorCmd.AddCommand(passwdCmd)

	createTailorCmd.Flags().StringVarP(&tailorUsername, "username", "u", "", "Login name (required)")
	createTailorCmd.Flags().StringVarP(&tailorPassword, "password", "p", "", "Password, at least 6 characters (required)")
	createTailorCmd.Flags().StringVarP(&tailorShopName, "shop-name", "s", "", "Shop name shown after login")
	createTailorCmd.MarkFlagRequired("username")
	createTailorCmd.MarkFlagRequired("password")

	passwdCmd.Flags().StringVarP(&tailorPassword, "password", "p", "", "New password (required)")
	passwdCmd.MarkFlagRequired("password")
}

// offlineService opens the database for a one-shot command
func offlineService() (service.Service, func()) {
	cfg := loadConfig()
	db, _ := openDatabase(cfg)

	svc, err := newService(cfg, db, session.NewMemoryStore())
	if err != nil {
		db.Close()
		log.Fatalf("Failed to initialize service: %v", err)
	}
	return svc, func() { db.Close() }
}

func createTailor() {
	svc, closeDB := offlineService()
	defer closeDB()

	tailor, err := svc.CreateTailor(context.Background(), service.TailorInput{
		Username: tailorUsername,
		Password: tailorPassword,
		ShopName: tailorShopName,
	})
	if err != nil {
		log.Fatalf("Failed to create tailor: %v", err)
	}

	fmt.Println("=================================================================")
	fmt.Println("Tailor account created")
	fmt.Println("=================================================================")
	fmt.Printf("ID:        %d\n", tailor.ID)
	fmt.Printf("Username:  %s\n", tailor.Username)
	fmt.Printf("Shop name: %s\n", tailor.ShopName)
}

func listTailors() {
	svc, closeDB := offlineService()
	defer closeDB()

	tailors, err := svc.ListTailors(context.Background())
	if err != nil {
		log.Fatalf("Failed to list tailors: %v", err)
	}

	fmt.Println("=================================================================")
	fmt.Printf("Total tailors: %d\n", len(tailors))
	fmt.Println("=================================================================")
	for _, t := range tailors {
		fmt.Printf("ID: %d\n", t.ID)
		fmt.Printf("Username: %s\n", t.Username)
		fmt.Printf("Shop name: %s\n", t.ShopName)
		fmt.Printf("Created: %s\n", t.CreatedAt.Format(time.RFC3339))
		fmt.Println("-----------------------------------------------------------------")
	}
}

func changePassword(username string) {
	svc, closeDB := offlineService()
	defer closeDB()

	if err := svc.ChangePassword(context.Background(), username, tailorPassword); err != nil {
		log.Fatalf("Failed to change password: %v", err)
	}
	fmt.Printf("Password updated for %s\n", username)
}
