/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Taxinomia Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package demo generates sample tables for trying out the viewer without
// any input files.
package demo

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/google/tabulae/core/columns"
	"github.com/google/tabulae/core/tables"
)

// Performance table configuration - easily modifiable cardinality
const (
	PerfNumTransactions = 100_000
	PerfNumUsers        = 80_000 // High cardinality: 80% unique (1.25 txns per user avg)
	PerfNumProducts     = 5_000  // Medium cardinality: (20 txns per product avg)
	PerfNumCategories   = 200    // Low cardinality: (500 txns per category avg)
)

var (
	regions  = []string{"north", "south", "east", "west"}
	products = []string{"apple", "banana", "cherry", "date", "elderberry", "fig"}
	statuses = []string{"pending", "completed", "cancelled", "processing"}
)

// Tables returns the demo tables by name. The same seed always produces the
// same data.
func Tables(seed uint64) map[string]*tables.DataTable {
	return map[string]*tables.DataTable{
		"orders":       CreateOrdersTable(seed, 500),
		"transactions": CreatePerfTransactionsTable(PerfNumTransactions),
	}
}

// CreateOrdersTable creates a small order table with every column kind and
// some missing values: about one price in twenty is NaN and one note in
// three is null.
func CreateOrdersTable(seed uint64, n int) *tables.DataTable {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	id := make([]int64, n)
	region := make([]string, n)
	product := make([]string, n)
	quantity := make([]int64, n)
	price := make([]float64, n)
	shipped := make([]bool, n)
	note := make([]string, n)
	noteNull := make([]bool, n)

	for i := 0; i < n; i++ {
		id[i] = int64(i + 1)
		region[i] = regions[r.IntN(len(regions))]
		product[i] = products[r.IntN(len(products))]
		quantity[i] = int64(1 + r.IntN(20))
		price[i] = math.Round(r.Float64()*10000) / 100
		if r.IntN(20) == 0 {
			price[i] = math.NaN()
		}
		shipped[i] = r.IntN(4) != 0
		if r.IntN(3) == 0 {
			noteNull[i] = true
		} else {
			note[i] = fmt.Sprintf("%s order %d", product[i], id[i])
		}
	}

	return tables.MustNew(
		tables.Field{Name: "id", Values: id},
		tables.Field{Name: "region", Values: region},
		tables.Field{Name: "product", Values: product},
		tables.Field{Name: "quantity", Values: quantity},
		tables.Field{Name: "price", Values: price},
		tables.Field{Name: "shipped", Values: shipped},
		tables.Field{Name: "note", Values: columns.NewStringColumnWithNulls(note, noteNull)},
	)
}

// CreatePerfTransactionsTable creates a large transaction table for
// performance testing. Values cycle deterministically so that each id
// column has the cardinality given by the Perf constants.
func CreatePerfTransactionsTable(n int) *tables.DataTable {
	txnID := make([]int64, n)
	userID := make([]int64, n)
	productID := make([]int64, n)
	categoryID := make([]int64, n)
	amount := make([]float64, n)
	status := make([]string, n)

	for i := 0; i < n; i++ {
		txnID[i] = int64(i)
		userID[i] = int64(i % PerfNumUsers)
		productID[i] = int64(i % PerfNumProducts)

		// Use weighted distribution - category 0 is more common
		categoryID[i] = int64(i % PerfNumCategories)
		if i%7 == 0 {
			categoryID[i] = 0
		}

		amount[i] = float64((i*37)%10000) / 100
		status[i] = statuses[i%len(statuses)]
	}

	return tables.MustNew(
		tables.Field{Name: "txn_id", Values: txnID},
		tables.Field{Name: "user_id", Values: userID},
		tables.Field{Name: "product_id", Values: productID},
		tables.Field{Name: "category_id", Values: categoryID},
		tables.Field{Name: "amount", Values: amount},
		tables.Field{Name: "status", Values: status},
	)
}
