// ABOUTME: Sales order CLI commands
// ABOUTME: Add, list and delete sales orders
package cli

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/harperreed/dealdesk/filter"
	"github.com/harperreed/dealdesk/models"
	"github.com/harperreed/dealdesk/viz"
)

// AddOrderCommand adds a new sales order. Status defaults to Draft.
func AddOrderCommand(env *Env, args []string) error {
	fs := flag.NewFlagSet("add-order", flag.ExitOnError)
	name := fs.String("name", "", "Order name (required)")
	number := fs.String("number", "", "Order number")
	customer := fs.String("customer", "", "Customer name")
	total := fs.Float64("total", 0, "Total amount in dollars")
	status := fs.String("status", "", "Draft, Confirmed, Shipped, Delivered or Cancelled")
	orderDate := fs.String("date", "", "Order date (YYYY-MM-DD)")
	tags := fs.String("tags", "", "Comma-separated tags")
	_ = fs.Parse(args)

	if _, err := env.requireSession(); err != nil {
		return err
	}

	date, err := parseDate(*orderDate)
	if err != nil {
		return err
	}

	order, err := env.Repos.SalesOrders.Create(context.Background(), models.SalesOrder{
		Name:         *name,
		OrderNumber:  *number,
		CustomerName: *customer,
		TotalAmount:  *total,
		Status:       *status,
		OrderDate:    date,
		Tags:         splitTags(*tags),
	})
	if err != nil {
		return fmt.Errorf("failed to create sales order: %w", err)
	}

	env.printf("✓ Sales order created: %s (ID: %d, %s)\n", order.Name, order.ID, order.Status)
	return nil
}

// ListOrdersCommand lists sales orders.
func ListOrdersCommand(env *Env, args []string) error {
	fs := flag.NewFlagSet("list-orders", flag.ExitOnError)
	filters := addListFlags(fs, "status")
	_ = fs.Parse(args)

	all, err := env.Repos.SalesOrders.GetAll(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list sales orders: %w", err)
	}
	orders, err := applyList(all, filter.SalesOrders(), filters)
	if err != nil {
		return err
	}

	if len(orders) == 0 {
		env.println("No sales orders found")
		return nil
	}

	w := tabwriter.NewWriter(env.Out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tNUMBER\tCUSTOMER\tTOTAL\tSTATUS\tDATE")
	_, _ = fmt.Fprintln(w, "--\t----\t------\t--------\t-----\t------\t----")
	for _, o := range orders {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			o.ID, o.Name, dash(o.OrderNumber), dash(o.CustomerName), viz.FormatMoney(o.TotalAmount), o.Status, formatDate(o.OrderDate))
	}
	_ = w.Flush()

	env.printf("\nTotal: %d order(s)\n", len(orders))
	return nil
}

// DeleteOrderCommand deletes a sales order.
func DeleteOrderCommand(env *Env, args []string) error {
	fs := flag.NewFlagSet("delete-order", flag.ExitOnError)
	_ = fs.Parse(args)

	id, err := parseID("order", fs.Args())
	if err != nil {
		return err
	}
	if _, err := env.requireSession(); err != nil {
		return err
	}

	if _, err := env.Repos.SalesOrders.Delete(context.Background(), id); err != nil {
		return fmt.Errorf("failed to delete sales order: %w", err)
	}

	env.printf("✓ Sales order deleted: %d\n", id)
	return nil
}
