// Package console is the interactive, line-oriented front end over the
// authentication and store services. It drives a single StoreService the
// way one desktop user would.
package console

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"go-retail-ws/internal/apperr"
	"go-retail-ws/internal/model"
	"go-retail-ws/internal/service"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

type action struct {
	key   string
	label string
	run   func(ctx context.Context) error
}

type Console struct {
	auth  service.AuthService
	store *service.StoreService
	log   *zap.Logger

	in    *bufio.Scanner
	out   io.Writer
	token string
	quit  bool
}

func New(auth service.AuthService, store *service.StoreService, in io.Reader, out io.Writer, log *zap.Logger) *Console {
	return &Console{
		auth:  auth,
		store: store,
		log:   log,
		in:    bufio.NewScanner(in),
		out:   out,
	}
}

// Run shows the menu until the user exits, the input ends or ctx is done.
// A live session is destroyed on the way out.
func (c *Console) Run(ctx context.Context) error {
	defer c.logout(context.Background())

	for !c.quit {
		if err := ctx.Err(); err != nil {
			return err
		}

		actions := c.menu()
		c.printMenu(actions)

		choice, ok := c.ask("Choice")
		if !ok {
			return nil
		}

		var picked *action
		for i := range actions {
			if actions[i].key == choice {
				picked = &actions[i]
				break
			}
		}
		if picked == nil {
			c.fail(apperr.Validation("unknown option %q", choice))
			continue
		}
		if err := picked.run(ctx); err != nil {
			c.fail(err)
		}
	}
	return nil
}

func (c *Console) menu() []action {
	if c.token == "" {
		return []action{
			{"1", "Register", c.register},
			{"2", "Login", c.login},
			{"0", "Exit", c.exit},
		}
	}
	return []action{
		{"1", "Create store", c.createStore},
		{"2", "List my stores", c.listStores},
		{"3", "Select store", c.selectStore},
		{"4", "Add staff", c.addStaff},
		{"5", "List staff", c.listStaff},
		{"6", "Update staff", c.updateStaff},
		{"7", "Remove staff", c.removeStaff},
		{"8", "Add product", c.addProduct},
		{"9", "List products", c.listProducts},
		{"10", "Update product", c.updateProduct},
		{"11", "Delete product", c.deleteProduct},
		{"12", "Record sale", c.recordSale},
		{"13", "List sales", c.listSales},
		{"14", "Record metric", c.recordMetric},
		{"15", "List metrics", c.listMetrics},
		{"16", "Store summary", c.summary},
		{"17", "Logout", c.logoutAction},
		{"0", "Exit", c.exit},
	}
}

func (c *Console) printMenu(actions []action) {
	header := "Retail Manager"
	if user := c.store.UserData(); user != nil {
		header += " · " + user.Name
	}
	if store := c.store.CurrentStore(); store != "" {
		header += " · store " + store
	}
	fmt.Fprintln(c.out, titleStyle.Render(header))
	for _, a := range actions {
		fmt.Fprintf(c.out, "  %s %s\n", labelStyle.Render(fmt.Sprintf("%3s)", a.key)), a.label)
	}
}

// ask prompts for one line; ok is false once the input is exhausted
func (c *Console) ask(prompt string) (string, bool) {
	fmt.Fprint(c.out, promptStyle.Render(prompt+": "))
	if !c.in.Scan() {
		c.quit = true
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

// askOptional returns nil for a blank answer
func (c *Console) askOptional(prompt string) *string {
	v, _ := c.ask(prompt + " (blank to keep)")
	if v == "" {
		return nil
	}
	return &v
}

func (c *Console) success(msg string) {
	fmt.Fprintln(c.out, okStyle.Render("✓ "+msg))
}

func (c *Console) fail(err error) {
	fmt.Fprintln(c.out, errStyle.Render(fmt.Sprintf("✗ [%s] %s", apperr.KindOf(err), err.Error())))
}

// show prints v as YAML using its JSON field names
func (c *Console) show(v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		c.fail(err)
		return
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		c.fail(err)
		return
	}
	out, err := yaml.Marshal(generic)
	if err != nil {
		c.fail(err)
		return
	}
	fmt.Fprint(c.out, string(out))
}

// ============ AUTH ============

func (c *Console) register(ctx context.Context) error {
	var req service.RegisterRequest
	req.Email, _ = c.ask("Email")
	req.Name, _ = c.ask("Name")
	req.Password, _ = c.ask("Password")

	res, err := c.auth.Register(ctx, req)
	if err != nil {
		return err
	}
	c.start(res)
	c.success("Account created, welcome " + res.Profile.Name)
	return nil
}

func (c *Console) login(ctx context.Context) error {
	email, _ := c.ask("Email")
	password, _ := c.ask("Password")

	res, err := c.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}
	c.start(res)
	c.success("Logged in as " + res.Profile.Name)
	return nil
}

func (c *Console) start(res *service.AuthResult) {
	c.token = res.SessionToken
	c.store.SetCurrentUser(res)
	c.log.Debug("console session started", zap.String("user_id", res.UserID))
}

func (c *Console) logoutAction(ctx context.Context) error {
	c.logout(ctx)
	c.success("Logged out")
	return nil
}

func (c *Console) logout(ctx context.Context) {
	if c.token == "" {
		return
	}
	if err := c.auth.Logout(ctx, c.token); err != nil {
		c.log.Warn("console logout failed", zap.Error(err))
	}
	c.token = ""
	c.store.SetCurrentStore(nil)
	c.store.SetCurrentUser(nil)
}

func (c *Console) exit(context.Context) error {
	c.quit = true
	return nil
}

// ============ STORES ============

func (c *Console) createStore(ctx context.Context) error {
	var in model.StoreInput
	in.Name, _ = c.ask("Store name")
	in.Address, _ = c.ask("Address")
	in.Phone, _ = c.ask("Phone (optional)")

	store, err := c.store.CreateStore(ctx, in, "")
	if err != nil {
		return err
	}
	c.store.SetCurrentStore(store)
	c.success("Store created and selected: " + store.ID)
	return nil
}

func (c *Console) listStores(ctx context.Context) error {
	stores, err := c.store.GetUserStores(ctx, "")
	if err != nil {
		return err
	}
	if len(stores) == 0 {
		c.success("No stores yet")
		return nil
	}
	c.show(stores)
	return nil
}

func (c *Console) selectStore(ctx context.Context) error {
	id, _ := c.ask("Store ID")
	c.store.SetCurrentStore(id)
	if id == "" {
		c.success("Store cleared")
		return nil
	}
	c.success("Selected store " + id)
	return nil
}

// ============ STAFF ============

func (c *Console) addStaff(ctx context.Context) error {
	var in model.StaffInput
	in.Name, _ = c.ask("Staff name")
	in.Role, _ = c.ask("Role (manager|seller|viewer)")
	in.UserID, _ = c.ask("Linked user ID (optional)")
	in.PIN, _ = c.ask("PIN (optional)")

	member, err := c.store.AddStaff(ctx, c.store.CurrentStore(), in)
	if err != nil {
		return err
	}
	c.success("Staff added: " + member.ID)
	return nil
}

func (c *Console) listStaff(ctx context.Context) error {
	staff, err := c.store.ListStaff(ctx, c.store.CurrentStore())
	if err != nil {
		return err
	}
	c.show(staff)
	return nil
}

func (c *Console) updateStaff(ctx context.Context) error {
	id, _ := c.ask("Staff ID")
	upd := model.StaffUpdate{
		Name: c.askOptional("Name"),
		Role: c.askOptional("Role"),
		PIN:  c.askOptional("PIN"),
	}
	if err := c.store.UpdateStaff(ctx, c.store.CurrentStore(), id, upd); err != nil {
		return err
	}
	c.success("Staff updated")
	return nil
}

func (c *Console) removeStaff(ctx context.Context) error {
	id, _ := c.ask("Staff ID")
	if err := c.store.RemoveStaff(ctx, c.store.CurrentStore(), id); err != nil {
		return err
	}
	c.success("Staff removed")
	return nil
}

// ============ PRODUCTS ============

func (c *Console) addProduct(ctx context.Context) error {
	var in model.ProductInput
	in.Name, _ = c.ask("Product name")
	in.Price, _ = c.ask("Price")
	in.Stock, _ = c.ask("Stock (blank if untracked)")

	product, err := c.store.CreateProduct(ctx, c.store.CurrentStore(), in)
	if err != nil {
		return err
	}
	c.success("Product added: " + product.ID)
	return nil
}

func (c *Console) listProducts(ctx context.Context) error {
	products, err := c.store.ListProducts(ctx, c.store.CurrentStore())
	if err != nil {
		return err
	}
	c.show(products)
	return nil
}

func (c *Console) updateProduct(ctx context.Context) error {
	id, _ := c.ask("Product ID")
	patch := model.ProductPatch{
		Name:  c.askOptional("Name"),
		Price: c.askOptional("Price"),
		Stock: c.askOptional("Stock"),
	}
	if err := c.store.UpdateProduct(ctx, c.store.CurrentStore(), id, patch); err != nil {
		return err
	}
	c.success("Product updated")
	return nil
}

func (c *Console) deleteProduct(ctx context.Context) error {
	id, _ := c.ask("Product ID")
	if err := c.store.DeleteProduct(ctx, c.store.CurrentStore(), id); err != nil {
		return err
	}
	c.success("Product deleted")
	return nil
}

// ============ SALES & METRICS ============

func (c *Console) recordSale(ctx context.Context) error {
	var in model.SaleInput
	in.ProductID, _ = c.ask("Product ID")
	qty, _ := c.ask("Quantity")
	in.UnitPrice, _ = c.ask("Unit price")
	in.Notes, _ = c.ask("Notes (optional)")

	n, err := strconv.Atoi(qty)
	if err != nil {
		return apperr.Validation("quantity must be a whole number")
	}
	in.Quantity = n

	sale, err := c.store.RecordSale(ctx, c.store.CurrentStore(), in)
	if err != nil {
		return err
	}
	c.success(fmt.Sprintf("Sale recorded: %s (total %s)", sale.ID, model.FormatAmount(sale.Total)))
	return nil
}

func (c *Console) listSales(ctx context.Context) error {
	from, _ := c.ask("From date YYYY-MM-DD (blank for latest)")
	storeID := c.store.CurrentStore()

	var (
		sales []model.Sale
		err   error
	)
	if from == "" {
		sales, err = c.store.ListSales(ctx, storeID, service.DefaultSalesLimit)
	} else {
		to, _ := c.ask("To date YYYY-MM-DD")
		start, perr := time.Parse(time.DateOnly, from)
		if perr != nil {
			return apperr.Validation("from must look like 2006-01-02")
		}
		end, perr := time.Parse(time.DateOnly, to)
		if perr != nil {
			return apperr.Validation("to must look like 2006-01-02")
		}
		// the end day counts in full
		sales, err = c.store.ListSalesBetween(ctx, storeID, start, end.Add(24*time.Hour-time.Nanosecond))
	}
	if err != nil {
		return err
	}

	c.show(sales)
	c.success(fmt.Sprintf("%d sales, revenue %s", len(sales), model.FormatAmount(service.CalculateRevenue(sales))))
	return nil
}

func (c *Console) recordMetric(ctx context.Context) error {
	var in model.MetricInput
	in.MetricType, _ = c.ask("Metric type")
	in.Value, _ = c.ask("Value")
	in.Period, _ = c.ask("Period (daily|weekly|monthly|yearly, blank for daily)")
	in.Description, _ = c.ask("Description (optional)")

	metric, err := c.store.RecordMetric(ctx, c.store.CurrentStore(), in)
	if err != nil {
		return err
	}
	c.success("Metric recorded: " + metric.ID)
	return nil
}

func (c *Console) listMetrics(ctx context.Context) error {
	metricType, _ := c.ask("Metric type (blank for all)")
	metrics, err := c.store.ListMetrics(ctx, c.store.CurrentStore(), metricType, service.DefaultMetricsLimit)
	if err != nil {
		return err
	}
	c.show(metrics)
	return nil
}

func (c *Console) summary(ctx context.Context) error {
	sum, err := c.store.Summary(ctx, c.store.CurrentStore())
	if err != nil {
		return err
	}
	c.show(sum)
	c.success("Revenue " + model.FormatAmount(sum.Revenue))
	return nil
}
