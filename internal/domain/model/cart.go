package model

import (
	"math"
	"sort"
	"strconv"
)

// カート。セッションに保存する {商品ID(文字列) -> 数量}。
// 数量は常に正で、0以下になった行は消す
type Cart map[string]int

func cartKey(productID int64) string {
	return strconv.FormatInt(productID, 10)
}

// 数量を加算する。結果が0以下なら行を消す。上限はMaxIntで止める
func (c Cart) Add(productID int64, qty int) {
	key := cartKey(productID)
	cur := c[key]
	next := cur + qty
	if qty > 0 && cur > math.MaxInt-qty {
		next = math.MaxInt
	}
	if next <= 0 {
		delete(c, key)
		return
	}
	c[key] = next
}

// 数量を上書きする。0以下なら行を消す
func (c Cart) Set(productID int64, qty int) {
	if qty <= 0 {
		c.Remove(productID)
		return
	}
	c[cartKey(productID)] = qty
}

func (c Cart) Remove(productID int64) {
	delete(c, cartKey(productID))
}

func (c Cart) Qty(productID int64) int {
	return c[cartKey(productID)]
}

func (c Cart) Clear() {
	for k := range c {
		delete(c, k)
	}
}

func (c Cart) IsEmpty() bool {
	return len(c) == 0
}

// 商品IDを昇順で返す。数値にならないキーは無視する
func (c Cart) ProductIDs() []int64 {
	ids := make([]int64, 0, len(c))
	for k := range c {
		id, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
