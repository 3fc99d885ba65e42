package feed

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// NormalizeSeason accepts "2024/2025" or "2425" and returns the football-data code "2425".
func NormalizeSeason(season string) (string, error) {
	season = strings.TrimSpace(season)
	switch {
	case regexp.MustCompile(`^\d{4}$`).MatchString(season):
		return season, nil
	case regexp.MustCompile(`^\d{4}/\d{4}$`).MatchString(season):
		return season[2:4] + season[7:9], nil
	default:
		return "", fmt.Errorf("season must be in the format 'yyyy/yyyy' or 'yyyy', got %q", season)
	}
}

// seasonStartYear maps "9394" to 1993 and "2425" to 2024.
func seasonStartYear(code string) int {
	yy, _ := strconv.Atoi(code[:2])
	if yy >= 90 {
		return 1900 + yy
	}
	return 2000 + yy
}

// sortSeasons orders season codes oldest first.
func sortSeasons(codes []string) {
	sort.SliceStable(codes, func(i, j int) bool {
		return seasonStartYear(codes[i]) < seasonStartYear(codes[j])
	})
}

// indexPage is the football-data page listing every season for a league code.
func indexPage(league string) string {
	switch {
	case strings.HasPrefix(league, "SC"):
		return "scotlandm.php"
	case strings.HasPrefix(league, "D"):
		return "germanym.php"
	case strings.HasPrefix(league, "I"):
		return "italym.php"
	case strings.HasPrefix(league, "SP"):
		return "spainm.php"
	case strings.HasPrefix(league, "F"):
		return "francem.php"
	default:
		return "englandm.php"
	}
}

// DiscoverSeasons finds every season csv linked for league on an index page, newest first.
func DiscoverSeasons(html []byte, league string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse index page: %w", err)
	}

	pattern := regexp.MustCompile(`mmz4281/(\d{4})/` + regexp.QuoteMeta(league) + `\.csv$`)
	seen := map[string]bool{}
	var seasons []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		m := pattern.FindStringSubmatch(strings.TrimSpace(href))
		if m == nil || seen[m[1]] {
			return
		}
		seen[m[1]] = true
		seasons = append(seasons, m[1])
	})

	sortSeasons(seasons)
	for i, j := 0, len(seasons)-1; i < j; i, j = i+1, j-1 {
		seasons[i], seasons[j] = seasons[j], seasons[i]
	}
	return seasons, nil
}
