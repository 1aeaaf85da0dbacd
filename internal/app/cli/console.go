// Package cli runs the operator console: it prepares storage, prints the
// remote menu, takes one order and reports the outcome.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/application/types"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/domain"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/ports"
)

// ErrNoOrder is returned when the input ends before a valid order was entered.
var ErrNoOrder = errors.New("no order entered")

// Console drives one submission against the ordering service.
type Console struct {
	service   ports.Service
	workflows ports.WorkflowOrchestrator
	in        *bufio.Reader
	out       io.Writer
}

// NewConsole writes to out and, when no order is given up front, reads it from in.
func NewConsole(service ports.Service, workflows ports.WorkflowOrchestrator, in io.Reader, out io.Writer) *Console {
	if in == nil {
		in = strings.NewReader("")
	}
	return &Console{service: service, workflows: workflows, in: bufio.NewReader(in), out: out}
}

// Run fetches and prints the menu, then submits order. An empty order is
// prompted for until a line parses and resolves or the input ends.
func (c *Console) Run(ctx context.Context, order string) (types.SubmitOrderResult, error) {
	c.printf("Fetching menu from backend...\n")
	menu, err := c.service.GetMenu(ctx, true)
	if err != nil {
		c.printf("Error: %v\n", err)
		return types.SubmitOrderResult{}, err
	}
	c.printf("Received %d dishes\n\n", len(menu))
	c.PrintMenu(menu)

	input, err := c.resolve(menu, order)
	if err != nil {
		return types.SubmitOrderResult{}, err
	}

	c.printf("\nSending order to backend...\n")
	result, err := c.submit(ctx, input)
	if err != nil {
		c.printf("Fatal error: %v\n", err)
		return types.SubmitOrderResult{}, err
	}
	if result.Success {
		c.printf("SUCCESS\nOrder ID: %s\n", result.OrderID)
	} else {
		c.printf("FAILED: %s\nOrder ID: %s\n", result.ErrorMessage, result.OrderID)
	}
	return result, nil
}

// PrintMenu renders the catalog as an aligned table.
func (c *Console) PrintMenu(menu []*domain.Dish) {
	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tARTICLE\tPRICE\tUNIT")
	for _, dish := range menu {
		unit := "pcs"
		if dish.IsWeighted {
			unit = "weight"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", dish.Name, dish.Article, dish.Price.StringFixed(2), unit)
	}
	_ = w.Flush()
}

func (c *Console) resolve(menu []*domain.Dish, order string) (types.SubmitOrderInput, error) {
	if strings.TrimSpace(order) != "" {
		input, err := parseAndResolve(menu, order)
		if err != nil {
			c.printf("Invalid order: %v\n", err)
		}
		return input, err
	}
	for {
		c.printf("\nEnter order as CODE:QTY;CODE:QTY (e.g. HOT001:2;SAL001:1)\n> ")
		line, readErr := c.in.ReadString('\n')
		if strings.TrimSpace(line) != "" {
			input, err := parseAndResolve(menu, line)
			if err == nil {
				return input, nil
			}
			c.printf("Invalid order: %v\nPlease try again.\n", err)
		}
		if readErr != nil {
			return types.SubmitOrderInput{}, ErrNoOrder
		}
	}
}

func parseAndResolve(menu []*domain.Dish, raw string) (types.SubmitOrderInput, error) {
	lines, err := types.ParseOrderInput(raw)
	if err != nil {
		return types.SubmitOrderInput{}, err
	}
	return types.ResolveLines(menu, lines)
}

func (c *Console) submit(ctx context.Context, input types.SubmitOrderInput) (types.SubmitOrderResult, error) {
	if c.workflows != nil {
		return c.workflows.SubmitOrder(ctx, input)
	}
	return c.service.SubmitOrder(ctx, input)
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}
