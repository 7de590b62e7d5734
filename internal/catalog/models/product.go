package models

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// LowStockThreshold: остаток, при котором и ниже товар помечается как заканчивающийся.
const LowStockThreshold = 10

// Stock хранит либо известное количество, либо "неизвестно". Неизвестный остаток
// никогда не превращается в ноль; Raw сохраняет исходное значение для показа.
type Stock struct {
	Quantity int
	Known    bool
	Raw      string
}

func KnownStock(quantity int) Stock {
	return Stock{Quantity: quantity, Known: true}
}

func UnknownStock(raw string) Stock {
	return Stock{Raw: raw}
}

func (s Stock) IsLow() bool {
	return s.Known && s.Quantity <= LowStockThreshold
}

func (s Stock) String() string {
	if s.Known {
		return strconv.Itoa(s.Quantity)
	}
	if s.Raw != "" {
		return s.Raw
	}
	return "unknown"
}

type Product struct {
	ID            string
	Brand         string
	Name          string
	CategoryPath  []string
	CurrentPrice  decimal.NullDecimal
	OriginalPrice decimal.NullDecimal
	Stock         Stock
	// Image и Spec необязательны: nil означает, что поля в ответе не было.
	Image *string
	Spec  *string
}

func (p Product) LowStock() bool {
	return p.Stock.IsLow()
}

var hundred = decimal.NewFromInt(100)

// DiscountRate возвращает процент скидки, только если исходная цена больше текущей.
func (p Product) DiscountRate() (int, bool) {
	if !p.CurrentPrice.Valid || !p.OriginalPrice.Valid {
		return 0, false
	}
	original, current := p.OriginalPrice.Decimal, p.CurrentPrice.Decimal
	if !original.GreaterThan(current) {
		return 0, false
	}
	rate := original.Sub(current).Div(original).Mul(hundred).Round(0)
	return int(rate.IntPart()), true
}

func (p Product) Category() string {
	if len(p.CategoryPath) == 0 {
		return ""
	}
	return p.CategoryPath[0]
}
