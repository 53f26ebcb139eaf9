package app

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/go-github/v45/github"

	"github.com/pouriyajamshidi/flagshape/printers"
)

// Version is set at compile time
var Version = ""

const (
	Owner = "pouriyajamshidi"
	Repo  = "flagshape"
)

// PrintUsage prints how flagshape should be run
func PrintUsage(w io.Writer) {
	executableName := os.Args[0]

	fmt.Fprint(w, printers.ColorLightCyan("\nFLAGSHAPE version %s\n\n", Version))
	fmt.Fprintf(w, "Try running %s like:\n", executableName)
	fmt.Fprintf(w, "%s <manifest>... For example:\n", executableName)
	fmt.Fprintf(w, "%s commands.yaml\n", executableName)
	fmt.Fprintf(w, "\n[optional flags]\n")

	newFlagSet().VisitAll(func(f *flag.Flag) {
		flagName := f.Name
		if len(f.Name) > 1 {
			flagName = "-" + flagName
		}

		fmt.Fprint(w, printers.ColorYellow("  -%s", flagName))
		fmt.Fprintf(w, " : %s\n", f.Usage)
	})
}

func compareVersions(v1, v2 string) int {
	parts1 := strings.Split(v1, ".")
	parts2 := strings.Split(v2, ".")

	for i := range min(len(parts1), len(parts2)) {
		n1, _ := strconv.Atoi(parts1[i])
		n2, _ := strconv.Atoi(parts2[i])

		if n1 < n2 {
			return -1
		}
		if n1 > n2 {
			return 1
		}
	}

	// for cases in which version numbers differ in length
	if len(parts1) < len(parts2) {
		return -1
	}

	if len(parts1) > len(parts2) {
		return 1
	}

	return 0
}

// PrintVersion displays the version
func PrintVersion(w io.Writer) {
	fmt.Fprint(w, printers.ColorGreen("FLAGSHAPE version %s\n", Version))
}

var releaseTagPattern = regexp.MustCompile(`^v?(\d+\.\d+\.\d+)$`)

// CheckForUpdates checks for newer versions of flagshape and returns update message
func CheckForUpdates(ctx context.Context) (string, error) {
	c := github.NewClient(nil)

	// unauthenticated requests from the same IP are limited to 60 per hour
	latestRelease, _, err := c.Repositories.GetLatestRelease(ctx, Owner, Repo)
	if err != nil {
		return "", fmt.Errorf("check for updates: %w", err)
	}

	return updateMessage(Version, latestRelease.GetTagName())
}

// updateMessage compares the running version with a release tag.
func updateMessage(current, latestTagName string) (string, error) {
	latestVersion := releaseTagPattern.FindStringSubmatch(latestTagName)
	if len(latestVersion) == 0 {
		return "", fmt.Errorf("version name does not match expected format: %s", latestTagName)
	}

	switch compareVersions(current, latestVersion[1]) {
	case -1:
		return fmt.Sprintf("Found newer version %s\nPlease update FLAGSHAPE from the URL below:\nhttps://github.com/%s/%s/releases/tag/%s",
			latestVersion[1], Owner, Repo, latestTagName), nil
	case 1:
		return fmt.Sprintf("Current version %s is newer than the latest release %s",
			current, latestVersion[1]), nil
	default:
		return fmt.Sprintf("FLAGSHAPE is on the latest version: %s", current), nil
	}
}
