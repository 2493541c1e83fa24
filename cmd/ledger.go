package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/proplife/internal/catalog"
	"github.com/theirongolddev/proplife/internal/cli"
	"github.com/theirongolddev/proplife/internal/model"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/cobra"
)

var (
	flagCostsDomain string
	flagDomain      string
	flagPriceDomain string
	flagCategory    string
	flagAmount      float64
	flagLabel       string
	flagDate        string
	flagMethod      string
)

var costsCmd = &cobra.Command{
	Use:   "costs <id>",
	Short: "List a property's cost entries",
	Args:  cobra.ExactArgs(1),
	RunE:  runCosts,
}

var costsAddCmd = &cobra.Command{
	Use:     "add <id>",
	Short:   "Record a cost entry",
	Example: "  proplife costs add p-101 --domain acquisition --category stamp_duty --amount 48000",
	Args:    cobra.ExactArgs(1),
	RunE:    runCostsAdd,
}

var receiptsAddCmd = &cobra.Command{
	Use:   "receipt <id>",
	Short: "Record a payment received from the buyer",
	Args:  cobra.ExactArgs(1),
	RunE:  runReceiptAdd,
}

var installmentAddCmd = &cobra.Command{
	Use:   "installment <id>",
	Short: "Record a payment made to the seller",
	Args:  cobra.ExactArgs(1),
	RunE:  runInstallmentAdd,
}

var priceCmd = &cobra.Command{
	Use:   "price <id> <amount>",
	Short: "Set the purchase price, subdivision budget or sale price of a domain",
	Args:  cobra.ExactArgs(2),
	RunE:  runPrice,
}

func init() {
	costsCmd.Flags().StringVar(&flagCostsDomain, "domain", "", "Only list one domain: acquisition, subdivision, handover")

	af := costsAddCmd.Flags()
	af.StringVar(&flagDomain, "domain", string(model.DomainAcquisition), "Cost domain")
	af.StringVar(&flagCategory, "category", "", "Category key of the domain")
	af.Float64Var(&flagAmount, "amount", 0, "Amount")
	af.StringVar(&flagLabel, "label", "", "Description")
	af.StringVar(&flagDate, "date", "", "Date as YYYY-MM-DD (default today)")
	_ = costsAddCmd.MarkFlagRequired("category")
	_ = costsAddCmd.MarkFlagRequired("amount")
	costsCmd.AddCommand(costsAddCmd)

	for _, c := range []*cobra.Command{receiptsAddCmd, installmentAddCmd} {
		c.Flags().Float64Var(&flagAmount, "amount", 0, "Amount")
		c.Flags().StringVar(&flagDate, "date", "", "Date as YYYY-MM-DD (default today)")
		c.Flags().StringVar(&flagMethod, "method", "", "Payment method, e.g. bank transfer")
		_ = c.MarkFlagRequired("amount")
	}

	priceCmd.Flags().StringVar(&flagPriceDomain, "domain", string(model.DomainAcquisition), "Domain the price belongs to")

	rootCmd.AddCommand(costsCmd, receiptsAddCmd, installmentAddCmd, priceCmd)
}

var amountRules = []validation.Rule{
	validation.Required.Error("must be greater than zero"),
	validation.Min(0.01).Error("must be greater than zero"),
}

// costDomain resolves a --domain value against the catalog.
func costDomain(raw string) (catalog.CostDomain, error) {
	domain := model.CostDomain(strings.ToLower(strings.TrimSpace(raw)))
	cd, ok := catalog.Default().CostDomain(domain)
	if !ok {
		return cd, fmt.Errorf("unknown cost domain %q", raw)
	}
	return cd, nil
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now().UTC().Truncate(24 * time.Hour), nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return t, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", raw)
	}
	return t, nil
}

func checkAmount(v float64) error {
	if err := validation.Validate(v, amountRules...); err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	return nil
}

func runCosts(cmd *cobra.Command, args []string) error {
	var domain model.CostDomain
	if flagCostsDomain != "" {
		cd, err := costDomain(flagCostsDomain)
		if err != nil {
			return err
		}
		domain = cd.Domain
	}

	cfg := loadConfig()
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	if _, err := st.GetProperty(ctx, args[0]); err != nil {
		return notFound(err, args[0])
	}
	entries, err := st.ListCosts(ctx, args[0], domain)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("\n  No cost entries.")
		return nil
	}

	cat := catalog.Default()
	rows := make([][]string, 0, len(entries)+2)
	var total float64
	for _, e := range entries {
		label := e.Category
		if cd, ok := cat.CostDomain(e.Domain); ok {
			label = cd.Label(e.Category)
		}
		rows = append(rows, []string{
			cli.FormatDate(e.Date),
			string(e.Domain),
			label,
			cli.Truncate(e.Label, 30),
			cli.FormatMoney(e.Amount, cfg.General.Currency),
		})
		total += e.Amount
	}
	rows = append(rows, []string{"---"}, []string{"Total", "", "", "", cli.FormatMoney(total, cfg.General.Currency)})

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:      "Costs · " + args[0],
		Headers:    []string{"Date", "Domain", "Category", "Label", "Amount"},
		Rows:       rows,
		RightAlign: []int{4},
	}))
	return nil
}

func runCostsAdd(cmd *cobra.Command, args []string) error {
	cd, err := costDomain(flagDomain)
	if err != nil {
		return err
	}
	if !cd.Has(flagCategory) {
		return fmt.Errorf("unknown %s category %q (one of: %s)", cd.Domain, flagCategory, strings.Join(cd.Keys(), ", "))
	}
	if err := checkAmount(flagAmount); err != nil {
		return err
	}
	date, err := parseDate(flagDate)
	if err != nil {
		return err
	}

	cfg := loadConfig()
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	if _, err := st.GetProperty(ctx, args[0]); err != nil {
		return notFound(err, args[0])
	}
	e, err := st.SaveCost(ctx, model.CostEntry{
		PropertyID: args[0],
		Domain:     cd.Domain,
		Category:   flagCategory,
		Label:      flagLabel,
		Amount:     flagAmount,
		Date:       date,
	})
	if err != nil {
		return err
	}
	fmt.Printf("  Recorded %s %s (%s)\n", cd.Label(e.Category), cli.FormatMoney(e.Amount, cfg.General.Currency), e.ID)
	return nil
}

func runReceiptAdd(cmd *cobra.Command, args []string) error {
	if err := checkAmount(flagAmount); err != nil {
		return err
	}
	date, err := parseDate(flagDate)
	if err != nil {
		return err
	}

	cfg := loadConfig()
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	if _, err := st.GetProperty(ctx, args[0]); err != nil {
		return notFound(err, args[0])
	}
	r, err := st.SaveReceipt(ctx, model.PaymentReceipt{
		PropertyID: args[0],
		Amount:     flagAmount,
		Date:       date,
		Method:     flagMethod,
	})
	if err != nil {
		return err
	}
	fmt.Printf("  Receipt #%d: %s\n", r.ReceiptNumber, cli.FormatMoney(r.Amount, cfg.General.Currency))
	return nil
}

func runInstallmentAdd(cmd *cobra.Command, args []string) error {
	if err := checkAmount(flagAmount); err != nil {
		return err
	}
	date, err := parseDate(flagDate)
	if err != nil {
		return err
	}

	cfg := loadConfig()
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	if _, err := st.GetProperty(ctx, args[0]); err != nil {
		return notFound(err, args[0])
	}
	in, err := st.SaveInstallment(ctx, model.PaymentInstallment{
		PropertyID: args[0],
		Amount:     flagAmount,
		Date:       date,
		Method:     flagMethod,
	})
	if err != nil {
		return err
	}
	fmt.Printf("  Installment #%d: %s\n", in.InstallmentNumber, cli.FormatMoney(in.Amount, cfg.General.Currency))
	return nil
}

func runPrice(cmd *cobra.Command, args []string) error {
	cd, err := costDomain(flagPriceDomain)
	if err != nil {
		return err
	}
	var price float64
	if _, err := fmt.Sscanf(args[1], "%g", &price); err != nil {
		return fmt.Errorf("invalid amount %q", args[1])
	}
	if err := validation.Validate(price, validation.Min(0.0).Error("must not be negative")); err != nil {
		return fmt.Errorf("amount: %w", err)
	}

	cfg := loadConfig()
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	if _, err := st.GetProperty(ctx, args[0]); err != nil {
		return notFound(err, args[0])
	}
	if err := st.SetPrice(ctx, model.DealPrice{PropertyID: args[0], Domain: cd.Domain, Price: price}); err != nil {
		return err
	}
	fmt.Printf("  %s price set to %s\n", cli.FormatLabel(strings.ToUpper(string(cd.Domain))), cli.FormatMoney(price, cfg.General.Currency))
	return nil
}
