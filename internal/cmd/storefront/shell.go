package storefront

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/duynhne/bookstored/internal/api"
	"github.com/duynhne/bookstored/internal/platform/vnd"
	"github.com/duynhne/bookstored/internal/store/cart"
	"github.com/duynhne/bookstored/internal/store/notify"
	"github.com/duynhne/bookstored/internal/store/session"
)

// shell is the interactive storefront command loop.
type shell struct {
	client        *api.Client
	sessions      *session.Store
	carts         *cart.Store
	selection     *cart.Selection
	notifications *notify.Channel
	in            io.Reader
	out           io.Writer
}

func newShell(client *api.Client, sessions *session.Store, carts *cart.Store, selection *cart.Selection, notifications *notify.Channel, in io.Reader, out io.Writer) *shell {
	return &shell{
		client:        client,
		sessions:      sessions,
		carts:         carts,
		selection:     selection,
		notifications: notifications,
		in:            in,
		out:           out,
	}
}

// run reads commands until the input ends, the context is cancelled, or the
// user quits.
func (sh *shell) run(ctx context.Context) error {
	fmt.Fprintln(sh.out, `bookstore shell, type "help" for commands`)
	scanner := bufio.NewScanner(sh.in)
	sh.prompt()
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			sh.prompt()
			continue
		}
		if fields[0] == "exit" || fields[0] == "quit" {
			return nil
		}
		sh.dispatch(ctx, fields[0], fields[1:])
		sh.prompt()
	}
	return scanner.Err()
}

func (sh *shell) prompt() {
	fmt.Fprint(sh.out, "> ")
}

func (sh *shell) dispatch(ctx context.Context, command string, args []string) {
	switch command {
	case "help":
		sh.help()
	case "login":
		sh.login(ctx, args)
	case "register":
		sh.register(ctx, args)
	case "logout":
		sh.logout(ctx)
	case "whoami":
		sh.whoami()
	case "profile":
		sh.profile(ctx, args)
	case "books":
		sh.books(ctx, args)
	case "book":
		sh.book(ctx, args)
	case "banners":
		sh.banners(ctx)
	case "cart":
		sh.showCart()
	case "add":
		sh.add(ctx, args)
	case "qty":
		sh.quantity(ctx, args)
	case "remove":
		sh.remove(ctx, args)
	case "clear":
		sh.clear(ctx)
	case "select":
		sh.selectLines(args)
	case "checkout":
		sh.checkout(ctx, args)
	case "orders":
		sh.orders(ctx)
	case "order":
		sh.order(ctx, args)
	case "notices":
		sh.notices()
	default:
		fmt.Fprintf(sh.out, "unknown command %q, type \"help\"\n", command)
	}
}

func (sh *shell) help() {
	fmt.Fprint(sh.out, `commands:
  login <user> <password>          authenticate
  register <user> <email> <pass>   create an account
  logout                           end the session
  whoami                           show the signed-in account
  profile name <full name>         update the profile name
  profile email <address>          update the profile email
  books [search terms]             list the catalog
  book <id>                        show one book
  banners                          list active banners
  cart                             show the cart with selection marks
  add <book-id> [quantity]         add a book to the cart
  qty <item-id> <quantity>         change a line quantity
  remove <item-id|selected>        remove a line, or every selected line
  clear                            empty the cart
  select <item-id> | select all    toggle line selection
  checkout <shipping address>      place an order for the cart
  orders | order <id>              order history
  notices                          show pending notifications
  exit
`)
}

func (sh *shell) login(ctx context.Context, args []string) {
	if len(args) != 2 {
		fmt.Fprintln(sh.out, "usage: login <user> <password>")
		return
	}
	if err := sh.sessions.Login(ctx, args[0], args[1]); err != nil {
		sh.notifications.Error(err.Error())
		return
	}
	user, _ := sh.sessions.Identity()
	sh.notifications.Success("signed in as " + user.Username)
}

func (sh *shell) register(ctx context.Context, args []string) {
	if len(args) < 3 {
		fmt.Fprintln(sh.out, "usage: register <user> <email> <password> [full name]")
		return
	}
	input := api.RegisterInput{
		Username: args[0],
		Email:    args[1],
		Password: args[2],
		FullName: strings.Join(args[3:], " "),
	}
	if err := sh.sessions.Register(ctx, input); err != nil {
		sh.notifications.Error(err.Error())
		return
	}
	sh.notifications.Success("account created, signed in as " + input.Username)
}

func (sh *shell) logout(ctx context.Context) {
	if err := sh.sessions.Logout(ctx); err != nil {
		sh.notifications.Error(err.Error())
		return
	}
	sh.notifications.Info("signed out")
}

func (sh *shell) whoami() {
	user, ok := sh.sessions.Identity()
	if !ok {
		fmt.Fprintln(sh.out, "not signed in")
		return
	}
	fmt.Fprintf(sh.out, "%s <%s> role=%s\n", user.Username, user.Email, user.Role)
}

func (sh *shell) profile(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(sh.out, "usage: profile name <full name> | profile email <address>")
		return
	}
	var patch api.ProfilePatch
	value := strings.Join(args[1:], " ")
	switch args[0] {
	case "name":
		patch.FullName = &value
	case "email":
		patch.Email = &value
	default:
		fmt.Fprintln(sh.out, "usage: profile name <full name> | profile email <address>")
		return
	}
	if err := sh.sessions.UpdateProfile(ctx, patch); err != nil {
		sh.notifications.Error(err.Error())
		return
	}
	sh.notifications.Success("profile updated")
}

func (sh *shell) books(ctx context.Context, args []string) {
	page, err := sh.client.Books(ctx, api.BookListOptions{Search: strings.Join(args, " ")})
	if err != nil {
		sh.notifications.Error(err.Error())
		return
	}
	for _, book := range page.Books {
		fmt.Fprintf(sh.out, "%4d  %-40s %-20s %10s  stock %d\n",
			book.ID, book.Title, book.Author, vnd.Format(book.Price), book.Stock)
	}
	fmt.Fprintf(sh.out, "page %d of %d (%d books)\n", page.Page, page.Pages, page.Total)
}

func (sh *shell) book(ctx context.Context, args []string) {
	id, ok := sh.parseID(args, "usage: book <id>")
	if !ok {
		return
	}
	book, err := sh.client.Book(ctx, id)
	if err != nil {
		sh.notifications.Error(err.Error())
		return
	}
	fmt.Fprintf(sh.out, "%s\nby %s, %s\n%s\nprice %s, stock %d\n",
		book.Title, book.Author, book.Category, book.Description, vnd.Format(book.Price), book.Stock)
}

func (sh *shell) banners(ctx context.Context) {
	banners, err := sh.client.Banners(ctx, "")
	if err != nil {
		sh.notifications.Error(err.Error())
		return
	}
	for _, banner := range banners {
		fmt.Fprintf(sh.out, "%4d  %-12s %s\n", banner.ID, banner.Position, banner.Title)
	}
}

func (sh *shell) showCart() {
	items := sh.carts.Items()
	if len(items) == 0 {
		fmt.Fprintln(sh.out, "cart is empty")
		return
	}
	for _, item := range items {
		mark := " "
		if sh.selection.Has(item.ID) {
			mark = "x"
		}
		fmt.Fprintf(sh.out, "[%s] %4d  %-40s x%d  %s\n",
			mark, item.ID, item.Book.Title, item.Quantity, vnd.Format(item.Book.Price*float64(item.Quantity)))
	}
	fmt.Fprintf(sh.out, "total %s, selected %s\n",
		vnd.Format(sh.carts.TotalAmount()), vnd.Format(sh.selection.SelectedTotal()))
}

func (sh *shell) add(ctx context.Context, args []string) {
	if len(args) < 1 || len(args) > 2 {
		fmt.Fprintln(sh.out, "usage: add <book-id> [quantity]")
		return
	}
	bookID, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintln(sh.out, "usage: add <book-id> [quantity]")
		return
	}
	quantity := 1
	if len(args) == 2 {
		quantity, err = strconv.Atoi(args[1])
		if err != nil {
			fmt.Fprintln(sh.out, "usage: add <book-id> [quantity]")
			return
		}
	}
	if err := sh.carts.Add(ctx, bookID, quantity); err != nil {
		sh.notifications.Error(err.Error())
		return
	}
	sh.notifications.Success("added to cart")
}

func (sh *shell) quantity(ctx context.Context, args []string) {
	if len(args) != 2 {
		fmt.Fprintln(sh.out, "usage: qty <item-id> <quantity>")
		return
	}
	itemID, err1 := strconv.Atoi(args[0])
	quantity, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		fmt.Fprintln(sh.out, "usage: qty <item-id> <quantity>")
		return
	}
	if err := sh.carts.UpdateQuantity(ctx, itemID, quantity); err != nil {
		sh.notifications.Error(err.Error())
	}
}

func (sh *shell) remove(ctx context.Context, args []string) {
	if len(args) == 1 && args[0] == "selected" {
		if err := sh.selection.RemoveSelected(ctx); err != nil {
			sh.notifications.Error(err.Error())
			return
		}
		sh.notifications.Success("removed selected items")
		return
	}
	id, ok := sh.parseID(args, "usage: remove <item-id> | remove selected")
	if !ok {
		return
	}
	if err := sh.carts.Remove(ctx, id); err != nil {
		sh.notifications.Error(err.Error())
		return
	}
	sh.notifications.Success("removed from cart")
}

func (sh *shell) clear(ctx context.Context) {
	if err := sh.carts.Clear(ctx); err != nil {
		sh.notifications.Error(err.Error())
		return
	}
	sh.notifications.Success("cart cleared")
}

func (sh *shell) selectLines(args []string) {
	if len(args) == 1 && args[0] == "all" {
		sh.selection.ToggleAll()
		return
	}
	id, ok := sh.parseID(args, "usage: select <item-id> | select all")
	if !ok {
		return
	}
	sh.selection.Toggle(id)
}

func (sh *shell) checkout(ctx context.Context, args []string) {
	if sh.selection.Empty() {
		sh.notifications.Warning("select at least one item to check out")
		return
	}
	address := strings.TrimSpace(strings.Join(args, " "))
	if address == "" {
		fmt.Fprintln(sh.out, "usage: checkout <shipping address>")
		return
	}

	order, err := sh.client.CreateOrder(ctx, address)
	if err != nil {
		sh.notifications.Error(err.Error())
		return
	}
	if err := sh.carts.Refresh(ctx); err != nil {
		sh.notifications.Error(err.Error())
	}
	sh.notifications.Success(fmt.Sprintf("order #%d placed, total %s", order.ID, vnd.Format(order.TotalAmount)))
}

func (sh *shell) orders(ctx context.Context) {
	orders, err := sh.client.Orders(ctx)
	if err != nil {
		sh.notifications.Error(err.Error())
		return
	}
	for _, order := range orders {
		fmt.Fprintf(sh.out, "%4d  %-10s %-10s %10s  %s\n",
			order.ID, order.Status, order.PaymentStatus, vnd.Format(order.TotalAmount), order.CreatedAt)
	}
}

func (sh *shell) order(ctx context.Context, args []string) {
	id, ok := sh.parseID(args, "usage: order <id>")
	if !ok {
		return
	}
	order, err := sh.client.Order(ctx, id)
	if err != nil {
		sh.notifications.Error(err.Error())
		return
	}
	fmt.Fprintf(sh.out, "order #%d %s, payment %s, ship to %s\n",
		order.ID, order.Status, order.PaymentStatus, order.ShippingAddress)
	for _, item := range order.Items {
		fmt.Fprintf(sh.out, "  %-40s x%d  %s\n",
			item.Book.Title, item.Quantity, vnd.Format(item.Price*float64(item.Quantity)))
	}
	fmt.Fprintf(sh.out, "total %s\n", vnd.Format(order.TotalAmount))
}

func (sh *shell) notices() {
	pending := sh.notifications.Pending()
	if len(pending) == 0 {
		fmt.Fprintln(sh.out, "no pending notifications")
		return
	}
	for _, notification := range pending {
		fmt.Fprintf(sh.out, "[%s] %s\n", notification.Severity, notification.Message)
	}
}

func (sh *shell) parseID(args []string, usage string) (int, bool) {
	if len(args) != 1 {
		fmt.Fprintln(sh.out, usage)
		return 0, false
	}
	id, err := strconv.Atoi(args[0])
	if err != nil || id < 1 {
		fmt.Fprintln(sh.out, usage)
		return 0, false
	}
	return id, true
}
