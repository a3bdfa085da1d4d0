package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchPatternsGo(t *testing.T) {
	src := []byte(`package payment

type Processor interface {
	Charge(amount int) error
}

type receipt struct {
	total int
}

const MaxRetries = 3

var defaultTimeout = 30

func Process(amount int, currency string) error {
	return nil
}

func (r *receipt) Total() int {
	return r.total
}
`)
	records := matchPatterns("go", src)
	require.Len(t, records, 6)

	assert.Equal(t, Record{Name: "Processor", Kind: KindInterface, Line: 3}, records[0])
	assert.Equal(t, Record{Name: "receipt", Kind: KindType, Line: 7}, records[1])
	assert.Equal(t, Record{Name: "MaxRetries", Kind: KindConstant, Line: 11}, records[2])
	assert.Equal(t, Record{Name: "defaultTimeout", Kind: KindVariable, Line: 13}, records[3])
	assert.Equal(t, Record{Name: "Process", Kind: KindFunction, Line: 15, Signature: "(amount int, currency string)"}, records[4])
	// The approximation reads the first parenthesized group, which for a
	// method is the receiver.
	assert.Equal(t, Record{Name: "Total", Kind: KindMethod, Line: 19, Signature: "(r *receipt)"}, records[5])
}

func TestMatchPatternsPython(t *testing.T) {
	src := []byte(`MAX_SIZE = 100

class OrderBook:
    def add(self, order):
        pass

    def _rebalance(self):
        pass

def create_book(depth):
    return OrderBook()

def _internal_helper():
    pass
`)
	records := matchPatterns("python", src)
	require.Len(t, records, 4)

	assert.Equal(t, "MAX_SIZE", records[0].Name)
	assert.Equal(t, KindConstant, records[0].Kind)
	assert.Equal(t, "OrderBook", records[1].Name)
	assert.Equal(t, KindClass, records[1].Kind)
	// Indented def is a method; top-level def is a function.
	assert.Equal(t, KindMethod, records[2].Kind)
	assert.Equal(t, "add", records[2].Name)
	assert.Equal(t, KindFunction, records[3].Kind)
	assert.Equal(t, "create_book", records[3].Name)
}

func TestMatchPatternsTypeScript(t *testing.T) {
	src := []byte(`import { api } from './api';

export interface User {
	id: string;
}

export type UserID = string;

export class UserStore {
}

export function loadUser(id: string): Promise<User> {
	return api.get(id);
}

export const MAX_USERS = 500;

function privateHelper() {}
`)
	records := matchPatterns("typescript", src)
	require.Len(t, records, 5)

	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.Name
	}
	assert.Equal(t, []string{"User", "UserID", "UserStore", "loadUser", "MAX_USERS"}, names)
	assert.Equal(t, KindInterface, records[0].Kind)
	assert.Equal(t, KindType, records[1].Kind)
	assert.Equal(t, KindClass, records[2].Kind)
	assert.Equal(t, KindFunction, records[3].Kind)
	assert.Equal(t, "(id: string)", records[3].Signature)
	assert.Equal(t, KindConstant, records[4].Kind)
}

func TestApproximateParams(t *testing.T) {
	tests := []struct {
		name string
		line string
		next string
		want string
	}{
		{"empty", "func Run()", "", "()"},
		{"two params", "func Add(a int, b int) int {", "", "(a int, b int)"},
		{"cap at three", "def process(a, b, c, d, e):", "", "(a, b, c, ...)"},
		{"nested commas", "func New(m map[string, int], n int)", "", "(m map[string, int], n int)"},
		{"multi line", "export function render(", "props: Props) {", "(props: Props)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, approximateParams(tt.line, tt.next))
		})
	}
}

func TestMarkExported(t *testing.T) {
	goRecs := markExported("go", []Record{{Name: "Process"}, {Name: "helper"}})
	assert.True(t, goRecs[0].Exported)
	assert.False(t, goRecs[1].Exported)

	pyRecs := markExported("python", []Record{{Name: "load"}, {Name: "_load"}})
	assert.True(t, pyRecs[0].Exported)
	assert.False(t, pyRecs[1].Exported)

	tsRecs := markExported("typescript", []Record{{Name: "anything"}})
	assert.True(t, tsRecs[0].Exported)
}
