package site

import (
	"slices"
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mastermind-creat/techsafi/domain/content"
)

// Estimate is the home page price estimate for one project type and a set of add-ons.
type Estimate struct {
	ProjectType string
	Features    []string
	Total       int
	Currency    string
}

// EstimatePrice adds the base price of projectType to the prices of the
// selected features. Unknown ids contribute nothing.
func EstimatePrice(home content.HomePageConfig, projectType string, featureIDs []string) Estimate {
	est := Estimate{ProjectType: projectType, Currency: home.Estimator.Currency}
	est.Total = home.Estimator.BasePrices[projectType]
	for _, f := range home.Estimator.Features {
		if slices.Contains(featureIDs, f.ID) {
			est.Total += f.Price
			est.Features = append(est.Features, f.ID)
		}
	}
	return est
}

// projectTypes returns the estimator's project types in a stable order.
func projectTypes(home content.HomePageConfig) []string {
	out := make([]string, 0, len(home.Estimator.BasePrices))
	for k := range home.Estimator.BasePrices {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

var printer = message.NewPrinter(language.English)

// formatMoney renders 150000 as "KES 150,000".
func formatMoney(currency string, amount int) string {
	if currency == "" {
		return printer.Sprintf("%d", amount)
	}
	return printer.Sprintf("%s %d", currency, amount)
}
