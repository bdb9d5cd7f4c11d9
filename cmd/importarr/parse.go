package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/importarr/pkg/release"
)

var parseCmd = &cobra.Command{
	Use:   "parse <filename>",
	Short: "Parse a release filename (local, no server needed)",
	Long: `Parse a release filename and show what importarr extracts from it.

Examples:
  importarr parse "Show.Name.S01E05.VOSTFR.1080p.WEB-DL.x264-GROUP.mkv"
  importarr parse "One Piece - 1071 MULTI 1080p.mkv"`,
	Args: cobra.ExactArgs(1),
	RunE: runParseCmd,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParseCmd(cmd *cobra.Command, args []string) error {
	info := release.Parse(args[0])

	fmt.Printf("Title:       %s\n", orDash(info.Title))
	fmt.Printf("Clean title: %s\n", orDash(info.CleanTitle))
	if info.Season > 0 {
		fmt.Printf("Season:      %d\n", info.Season)
	}
	if len(info.Episodes) > 0 {
		fmt.Printf("Episodes:    %s\n", joinInts(info.Episodes))
	}
	if info.IsSeasonPack {
		fmt.Println("Season pack: yes")
	}
	fmt.Printf("Quality:     %s\n", info.Quality)
	fmt.Printf("Language:    %s\n", info.Language)
	if info.Group != "" {
		fmt.Printf("Group:       %s\n", info.Group)
	}
	if info.Proper {
		fmt.Println("Proper:      yes")
	}
	if info.Repack {
		fmt.Println("Repack:      yes")
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func joinInts(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return strings.Join(parts, ", ")
}
