package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"inventory_tracker/internal/model"
	"inventory_tracker/internal/store"
	"inventory_tracker/pkg/money"

	"go.uber.org/zap"
)

// errQuit 在任意提示符输入 q 或读到 EOF 时返回，Run 将其视为正常退出。
var errQuit = errors.New("quit")

// Exporter 由 backup.Exporter 实现。
type Exporter interface {
	Export(ctx context.Context) (int, error)
	Path() string
}

// Options 交互输入输出与时钟，测试时替换。
type Options struct {
	In     io.Reader
	Out    io.Writer
	Logger *zap.Logger
	Now    func() time.Time
}

type command struct {
	key  string
	name string
	help string
	run  func(s *Shell, ctx context.Context) error
}

// 菜单顺序固定
var commands = []command{
	{key: "v", name: "view", help: "View a single product's inventory", run: (*Shell).view},
	{key: "a", name: "add", help: "Add a new product to the database", run: (*Shell).add},
	{key: "d", name: "delete", help: "Delete a product by id", run: (*Shell).remove},
	{key: "b", name: "backup", help: "Make a backup of the entire inventory", run: (*Shell).backup},
}

// Shell 单用户行式菜单。
type Shell struct {
	store    *store.Store
	exporter Exporter
	in       *bufio.Scanner
	out      io.Writer
	log      *zap.Logger
	now      func() time.Time
}

func New(s *store.Store, exporter Exporter, opts Options) *Shell {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	in := opts.In
	if in == nil {
		in = strings.NewReader("")
	}
	return &Shell{
		store:    s,
		exporter: exporter,
		in:       bufio.NewScanner(in),
		out:      opts.Out,
		log:      opts.Logger,
		now:      opts.Now,
	}
}

// Run 循环读取命令直到 quit 或输入结束。只有存储错误会以非 nil 返回。
func (s *Shell) Run(ctx context.Context) error {
	s.println("Press q for exit at any time")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.printMenu()
		choice, err := s.prompt("Press corresponding letter for desired function: ")
		if err != nil {
			return s.finish(err)
		}
		cmd, ok := lookup(strings.ToLower(choice))
		if !ok {
			s.println("This is not a valid option! Please press a valid letter from the menu.")
			continue
		}
		if err := cmd.run(s, ctx); err != nil {
			if s.recoverable(cmd, err) {
				continue
			}
			return s.finish(err)
		}
	}
}

// recoverable 打印可恢复错误，返回 false 表示需要终止。
func (s *Shell) recoverable(cmd command, err error) bool {
	var inputErr *model.InputError
	var lookupErr *model.LookupError
	switch {
	case errors.As(err, &inputErr):
		s.printf("Invalid input: %v. Back to the menu.\n", inputErr)
		s.log.Warn("invalid input", zap.String("command", cmd.name), zap.Error(err))
		return true
	case errors.As(err, &lookupErr):
		s.printf("Oops! No entry with id %d!\n", lookupErr.ID)
		return true
	default:
		return false
	}
}

func (s *Shell) finish(err error) error {
	if errors.Is(err, errQuit) {
		s.println("Bye!")
		return nil
	}
	s.log.Error("shell stopped", zap.Error(err))
	return err
}

func lookup(choice string) (command, bool) {
	for _, c := range commands {
		if choice == c.key || choice == c.name {
			return c, true
		}
	}
	return command{}, false
}

func (s *Shell) printMenu() {
	s.println("Here are the options:")
	for _, c := range commands {
		s.printf("%s) %s\n", c.key, c.help)
	}
	s.println("q) Quit")
}

// view 查询单个商品；id 不存在时重新提示，直到查到或退出。
func (s *Shell) view(ctx context.Context) error {
	for {
		id, err := s.promptID()
		if err != nil {
			return err
		}
		p, err := s.store.FindByID(ctx, id)
		if errors.Is(err, model.ErrNotFound) {
			s.println("Oops! No entry with this id! Please enter a valid id!")
			continue
		}
		if err != nil {
			return err
		}
		s.printf("Product Name: %s\nPrice: %s (%d cents)\nQuantity: %d\nDate Updated: %s\n",
			p.Name, money.FormatCents(p.Price), p.Price, p.Quantity, p.DateUpdated.Format(model.DisplayLayout))
		return nil
	}
}

// add 新名称插入；已有名称原地覆盖数量、价格与更新时间。
func (s *Shell) add(ctx context.Context) error {
	name, err := s.prompt("Product Name: ")
	if err != nil {
		return err
	}
	if name == "" {
		return &model.InputError{Field: "name", Value: name, Err: errors.New("must not be empty")}
	}
	quantity, err := s.promptQuantity()
	if err != nil {
		return err
	}
	price, err := s.promptPrice()
	if err != nil {
		return err
	}

	now := s.now()
	existing, found, err := s.store.FindByName(ctx, name)
	if err != nil {
		return err
	}
	if !found {
		p := &model.Product{Name: name, Quantity: quantity, Price: price, DateUpdated: now}
		if err := s.store.Create(ctx, p); err != nil {
			return err
		}
		s.log.Info("product added", zap.Uint("product_id", p.ID), zap.String("name", name))
		s.printf("Product added to the database with id %d!\n", p.ID)
		return nil
	}

	existing.Quantity = quantity
	existing.Price = price
	existing.DateUpdated = now
	if err := s.store.Update(ctx, &existing); err != nil {
		return err
	}
	s.log.Info("product updated", zap.Uint("product_id", existing.ID), zap.String("name", name))
	s.printf("Product information for %s is updated!\n", existing.Name)
	return nil
}

func (s *Shell) remove(ctx context.Context) error {
	id, err := s.promptID()
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("product deleted", zap.Uint("product_id", id))
	s.printf("Deleted product %d\n", id)
	return nil
}

func (s *Shell) backup(ctx context.Context) error {
	n, err := s.exporter.Export(ctx)
	if err != nil {
		return err
	}
	s.printf("Contents of the database (%d products) are now in this file: %s\n", n, filepath.Base(s.exporter.Path()))
	return nil
}

// prompt 读取一行并去掉首尾空白；q/quit 与 EOF 返回 errQuit。
// 商品名提示同样如此，名为 "q"/"quit" 的商品只能通过导入写入。
func (s *Shell) prompt(label string) (string, error) {
	fmt.Fprint(s.out, label)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", &model.StorageError{Op: "read input", Err: err}
		}
		return "", errQuit
	}
	line := strings.TrimSpace(s.in.Text())
	switch strings.ToLower(line) {
	case "q", "quit":
		return "", errQuit
	}
	return line, nil
}

func (s *Shell) promptQuantity() (int, error) {
	raw, err := s.prompt("Product Quantity: ")
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &model.InputError{Field: "quantity", Value: raw, Err: errors.New("not an integer")}
	}
	return n, nil
}

func (s *Shell) promptPrice() (int64, error) {
	raw, err := s.prompt("Product Price (cents): ")
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &model.InputError{Field: "price", Value: raw, Err: errors.New("not an integer")}
	}
	return n, nil
}

func (s *Shell) promptID() (uint, error) {
	raw, err := s.prompt("Enter product id: ")
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, &model.InputError{Field: "id", Value: raw, Err: errors.New("not a positive integer")}
	}
	return uint(id), nil
}

func (s *Shell) println(msg string) { fmt.Fprintln(s.out, msg) }

func (s *Shell) printf(format string, args ...any) { fmt.Fprintf(s.out, format, args...) }
