package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/alecthomas/kingpin/v2"

	"github.com/eugenenazirov/change-calculator/internal/change"
	"github.com/eugenenazirov/change-calculator/internal/config"
)

type scenario struct {
	target        int64
	denominations []change.Denomination
}

func bigQuantity(value int64) change.Denomination {
	return change.Denomination{Value: value, Quantity: 1000}
}

var demoScenarios = []scenario{
	{25, []change.Denomination{{Value: 1, Quantity: 5}, {Value: 10, Quantity: 1}, {Value: 2, Quantity: 5}}},
	{200, []change.Denomination{{Value: 10, Quantity: 1}, {Value: 1, Quantity: 5}, {Value: 2, Quantity: 5}}},
	{50, []change.Denomination{{Value: 0, Quantity: 50}}},
	{50, []change.Denomination{{Value: 500, Quantity: 1}, {Value: 50, Quantity: -5}}},
	{1_000_000_000_001, []change.Denomination{{Value: 1, Quantity: 1_000_000_000_000}}},
	{28, []change.Denomination{{Value: 20, Quantity: 1}, {Value: 1, Quantity: 10}, {Value: 14, Quantity: 5}}},
	{6249, []change.Denomination{bigQuantity(186), bigQuantity(419), bigQuantity(83), bigQuantity(408)}},
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	app := kingpin.New("change", "Computes exact change with the fewest coins and notes")
	app.UsageWriter(stderr)
	app.ErrorWriter(stderr)
	demo := app.Flag("demo", "Run the built-in example scenarios").Bool()
	coins := app.Flag("coins", "Treat arguments as plain values available in unlimited quantity and print the item count").Bool()
	amount := app.Arg("amount", "Amount to give back").Int64()
	entries := app.Arg("denominations", "Denominations as <value>x<quantity> (or plain values with --coins)").Strings()

	if _, err := app.Parse(args); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	calc := change.New()

	if *demo {
		return runDemo(calc, stdout)
	}

	if *coins {
		values := make([]int, 0, len(*entries))
		for _, raw := range *entries {
			v, err := strconv.Atoi(raw)
			if err != nil {
				fmt.Fprintf(stderr, "invalid coin value %q\n", raw)
				return 2
			}
			values = append(values, v)
		}
		minItems := change.MinItems(values, int(*amount))
		fmt.Fprintln(stdout, minItems)
		if minItems < 0 {
			return 1
		}
		return 0
	}

	denominations := make([]change.Denomination, 0, len(*entries))
	for _, raw := range *entries {
		d, err := config.ParseDenomination(raw)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
		denominations = append(denominations, d)
	}

	solution, err := calc.MakeChange(*amount, denominations)
	fmt.Fprintln(stdout, change.Report(*amount, denominations, solution, err))
	if err != nil {
		return 1
	}
	return 0
}

func runDemo(calc change.Solver, stdout io.Writer) int {
	for _, s := range demoScenarios {
		solution, err := calc.MakeChange(s.target, s.denominations)
		fmt.Fprintln(stdout, change.Report(s.target, s.denominations, solution, err))
	}
	return 0
}
