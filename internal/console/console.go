// Package console renders analysis results as plain-text tables for the terminal.
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rewired-gh/tradeoracle/internal/models"
	"github.com/rewired-gh/tradeoracle/internal/montecarlo"
	"github.com/rewired-gh/tradeoracle/internal/strategy"
)

const ruleWidth = 60

// Console writes human-readable reports to out.
type Console struct {
	out io.Writer
	p   *message.Printer
}

// New returns a Console writing to out with English number grouping.
func New(out io.Writer) *Console {
	return &Console{out: out, p: message.NewPrinter(language.English)}
}

func (c *Console) money(v float64) string {
	return "$" + c.p.Sprintf("%.2f", v)
}

func (c *Console) pct(v float64) string {
	return c.p.Sprintf("%.2f%%", v)
}

func (c *Console) banner(title string) {
	fmt.Fprintln(c.out, strings.Repeat("=", ruleWidth))
	fmt.Fprintln(c.out, title)
	fmt.Fprintln(c.out, strings.Repeat("=", ruleWidth))
}

func (c *Console) section(title string) {
	fmt.Fprintf(c.out, "\n%s\n%s\n", title, strings.Repeat("-", 40))
}

func (c *Console) table(header []string, rows [][]string) {
	table := tablewriter.NewWriter(c.out)
	table.SetHeader(header)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.Render()
}

func (c *Console) keyValues(pairs [][2]string) {
	table := tablewriter.NewWriter(c.out)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetColumnSeparator("")
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, kv := range pairs {
		table.Append([]string{kv[0], kv[1]})
	}
	table.Render()
}

// Probability prints one probability analysis.
func (c *Console) Probability(r montecarlo.Record) {
	c.keyValues([][2]string{
		{"Current Price", c.money(r.CurrentPrice)},
		{"Target Price", c.money(r.TargetPrice)},
		{"Required Return", c.pct(r.RequiredReturn)},
		{"Probability of Success", c.pct(r.Probability)},
		{"Expected Price", c.money(r.ExpectedPrice)},
		{"5th Percentile", c.money(r.Percentile5)},
		{"25th Percentile", c.money(r.Percentile25)},
		{"Median Price", c.money(r.MedianPrice)},
		{"75th Percentile", c.money(r.Percentile75)},
		{"95th Percentile", c.money(r.Percentile95)},
	})
}

// Portfolio prints a portfolio simulation summary.
func (c *Console) Portfolio(r montecarlo.PortfolioReport) {
	c.keyValues([][2]string{
		{"Initial Capital", c.money(r.InitialCapital)},
		{"Target", c.money(r.Target)},
		{"Probability of Reaching Target", c.pct(r.ProbabilityOfSuccess)},
		{"Probability of Positive Returns", c.pct(r.ProbabilityPositive)},
		{"Expected Return", c.pct(r.ExpectedReturnPct)},
		{"Expected Final Value", c.money(r.ExpectedFinalValue)},
		{"Worst Case (5%)", c.money(r.WorstCase5Pct)},
		{"Best Case (95%)", c.money(r.BestCase95Pct)},
	})
}

// Report prints a stored analysis report of either kind.
func (c *Console) Report(r *models.AnalysisReport) {
	switch r.Kind {
	case models.KindRealistic:
		c.realistic(r)
	default:
		c.investment(r)
	}
	fmt.Fprintf(c.out, "\nReport %s saved at %s\n", r.ID, r.CreatedAt.Format("2006-01-02 15:04:05 MST"))
}

func (c *Console) investment(r *models.AnalysisReport) {
	c.banner("INVESTMENT ANALYZER - Momentum Options Strategy")

	c.section("1. HIGH-MOMENTUM STOCKS")
	rows := make([][]string, 0, len(r.TopStocks))
	for _, s := range r.TopStocks {
		rows = append(rows, []string{
			s.Ticker,
			c.money(s.CurrentPrice),
			c.pct(s.WeeklyReturn),
			c.pct(s.MonthlyReturn),
			c.p.Sprintf("%.1f", s.RSI),
			c.p.Sprintf("%.2f", s.MomentumScore),
		})
	}
	c.table([]string{"Ticker", "Price", "Weekly", "Monthly", "RSI", "Score"}, rows)

	if o := r.OptionsStrategy; o != nil {
		c.section(fmt.Sprintf("2. OPTIONS STRATEGY FOR %s", r.Ticker))
		c.keyValues([][2]string{
			{"Strategy", fmt.Sprintf("Buy %d call options", o.Contracts)},
			{"Strike", c.money(o.Strike)},
			{"Premium", c.money(o.Premium)},
			{"Total Cost", c.money(o.TotalCost)},
			{"Target Price", c.money(o.TargetPrice)},
			{"Profit/Loss", c.money(o.ProfitLoss)},
			{"Return", c.pct(o.ReturnPct)},
			{"Breakeven", c.money(o.Breakeven)},
		})
	}

	if r.Probability != nil {
		c.section("3. MONTE CARLO PROBABILITY ANALYSIS")
		c.Probability(*r.Probability)
	}

	if r.Portfolio != nil {
		c.section("4. PORTFOLIO SIMULATION")
		c.Portfolio(*r.Portfolio)
	}
}

func (c *Console) realistic(r *models.AnalysisReport) {
	c.banner(fmt.Sprintf("REALISTIC STRATEGY - %.0f%% Return Target", r.TargetReturn))

	c.section("1. MODERATE-RISK STOCKS")
	rows := make([][]string, 0, len(r.ModerateStocks))
	for _, s := range r.ModerateStocks {
		rows = append(rows, []string{
			s.Ticker,
			c.money(s.CurrentPrice),
			c.money(s.TargetPrice10Pct),
			c.pct(s.MonthlyReturn),
			c.pct(s.Volatility),
			string(s.RiskScore),
			c.pct(s.Probability10Pct),
		})
	}
	c.table([]string{"Ticker", "Price", "Target", "Monthly", "Volatility", "Risk", "Probability"}, rows)

	if len(r.StrategyPlans) > 0 {
		c.section(fmt.Sprintf("2. OPTIONS STRATEGIES FOR %s", r.Ticker))
		plans := make([][]string, 0, len(r.StrategyPlans))
		for _, pl := range r.StrategyPlans {
			plans = append(plans, []string{
				pl.Strategy,
				c.money(pl.Strike),
				c.p.Sprintf("%d", pl.Contracts),
				c.money(pl.TotalCost),
				c.money(pl.TargetProfit),
				c.p.Sprintf("%.1f%%", pl.AllocationPct),
			})
		}
		c.table([]string{"Strategy", "Strike", "Contracts", "Total Cost", "Target Profit", "Allocation"}, plans)
	}

	if l := r.Ladder; l != nil {
		c.section("3. MONTE CARLO SIMULATION")
		c.keyValues([][2]string{
			{"Current Price", c.money(l.StockPrice)},
			{"Target Price", c.money(l.TargetPrice)},
			{"Probability of 10% gain", c.pct(l.Prob10Pct)},
			{"Probability of 5% gain", c.pct(l.Prob5Pct)},
			{"Probability of break-even", c.pct(l.ProbBreakEven)},
			{"Expected Price", c.money(l.ExpectedPrice)},
			{"Median Price", c.money(l.MedianPrice)},
		})
	}

	if r.Portfolio != nil {
		c.section("4. DIVERSIFIED PORTFOLIO SIMULATION")
		c.Portfolio(*r.Portfolio)
	}
}

func (c *Console) plays(plays []strategy.Play) {
	rows := make([][]string, 0, len(plays))
	for i, pl := range plays {
		contracts := ""
		if pl.Contracts != nil {
			contracts = fmt.Sprint(pl.Contracts)
		}
		premium := ""
		if pl.HasOption() {
			premium = c.money(pl.OptionPremium)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			pl.Ticker,
			pl.Option,
			premium,
			contracts,
			pl.Allocation,
			pl.RiskLevel,
			pl.PotentialReturn,
		})
	}
	c.table([]string{"#", "Ticker", "Option", "Premium", "Contracts", "Allocation", "Risk", "Potential Return"}, rows)
}

// Aggressive prints the high-risk strategy catalog.
func (c *Console) Aggressive(r strategy.AggressiveReport) {
	c.banner("WSB AGGRESSIVE STRATEGY ANALYSIS")
	t := r.TargetMetrics
	fmt.Fprintf(c.out, "Target: %s -> %s (%s required)\n", c.money(t.InitialCapital), c.money(t.TargetCapital), c.pct(t.RequiredReturnPct))

	c.section("TOP STRATEGIES")
	c.plays(r.Strategies)

	c.section("RISK DISCLAIMER")
	for _, d := range r.RiskDisclaimer {
		fmt.Fprintf(c.out, "  ! %s\n", d)
	}
}

// Moderate prints the moderate-risk strategy catalog.
func (c *Console) Moderate(r strategy.ModerateReport) {
	c.banner("WSB MODERATE STRATEGY ANALYSIS")
	t := r.RevisedTarget
	fmt.Fprintf(c.out, "Target: %s -> %s (%s required)\n", c.money(t.InitialCapital), c.money(t.TargetCapital), c.pct(t.RequiredReturnPct))

	c.section("MODERATE STRATEGIES")
	c.plays(r.Strategies)

	c.section("EXECUTION PLAN")
	for _, week := range []string{"week_1", "week_2", "week_3", "week_4"} {
		if step, ok := r.ExecutionPlan[week]; ok {
			fmt.Fprintf(c.out, "  %s: %s\n", strings.ReplaceAll(week, "_", " "), step)
		}
	}
	fmt.Fprintf(c.out, "\nSuccess probability: %s\n", r.SuccessProbability)
}
