package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/libris/pkg/core"
	"github.com/spf13/cobra"
)

var studentCmd = &cobra.Command{
	Use:   "student",
	Short: "Manage registered students",
}

var studentAddCmd = &cobra.Command{
	Use:   "add ID NAME",
	Short: "Register a student",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		id := mustInt("registration id", args[0])
		name := strings.Join(args[1:], " ")

		ctx := context.Background()
		svc := openService(ctx, "")
		student, err := svc.RegisterStudent(id, name)
		if err != nil {
			fatal("Failed to register student", err)
		}
		commit(ctx, svc)
		fmt.Printf("Student '%s' registered.\n", student.Name)
	},
}

var studentListFormat string

var studentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered students",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		svc := openService(context.Background(), "")
		if err := printStudents(os.Stdout, studentListFormat, svc.ListStudents()); err != nil {
			fatal("Failed to print students", err)
		}
	},
}

var studentFindCmd = &cobra.Command{
	Use:   "find ID",
	Short: "Show a student and their active loans",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := mustInt("registration id", args[0])
		svc := openService(context.Background(), "")
		student, err := svc.FindStudent(id)
		if err != nil {
			fatal("Student not found", err)
		}
		fmt.Printf("ID: %d | Name: %s\n", student.RegID, student.Name)

		var loans []core.Loan
		for _, l := range svc.ActiveLoans() {
			if l.StudentRegID == id {
				loans = append(loans, l)
			}
		}
		printLoans(os.Stdout, formatTable, loans, "No active loans.")
	},
}

var studentRemoveCmd = &cobra.Command{
	Use:   "remove ID",
	Short: "Remove a student without active loans",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := mustInt("registration id", args[0])
		ctx := context.Background()
		svc := openService(ctx, "")
		student, err := svc.RemoveStudent(id)
		if err != nil {
			fatal("Failed to remove student", err)
		}
		commit(ctx, svc)
		fmt.Printf("Student '%s' removed.\n", student.Name)
	},
}

func init() {
	studentListCmd.Flags().StringVarP(&studentListFormat, "output", "o", formatTable, "Output format: table, json or yaml")
	studentCmd.AddCommand(studentAddCmd, studentListCmd, studentFindCmd, studentRemoveCmd)
	rootCmd.AddCommand(studentCmd)
}
