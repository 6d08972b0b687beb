package generator

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sspserver/statsgen/internal/config"
)

const calendarLayout = "2006-01-02 15:04:05"

// Column describes one position of the target table.
type Column struct {
	Name string
	Type string

	gen func(b *rowBuilder) Value
}

// rowBuilder carries the per-row state shared by the column generators
type rowBuilder struct {
	src       Source
	d         *config.DomainsConfig
	step      int64
	createdAt time.Time
}

func (b *rowBuilder) intIn(r config.Range) Int {
	return Int(b.src.IntRange(r.Min, r.Max))
}

func (b *rowBuilder) token(prefix string, r config.Range) String {
	return String(prefix + strconv.Itoa(b.src.IntRange(r.Min, r.Max)))
}

func (b *rowBuilder) pick(choices []string) String {
	return String(choices[b.src.IntRange(0, len(choices)-1)])
}

func (b *rowBuilder) pickInt(choices []int) Int {
	return Int(choices[b.src.IntRange(0, len(choices)-1)])
}

func (b *rowBuilder) flag() Int {
	return Int(b.src.IntRange(0, 1))
}

func (b *rowBuilder) price() Int {
	return Int(int64(b.src.IntRange(b.d.Price.Min, b.d.Price.Max)) * b.d.PriceScale)
}

func (b *rowBuilder) uuid() UUIDNum {
	return UUIDNum(b.src.UUID())
}

func (b *rowBuilder) coord(r config.FloatRange) Float {
	return Float(b.src.Float64Range(r.Min, r.Max))
}

func (b *rowBuilder) ipv6() String {
	groups := make([]string, 8)
	for i := range groups {
		groups[i] = fmt.Sprintf("%04x", b.src.IntRange(0, 0xffff))
	}
	return String(strings.Join(groups, ":"))
}

func (b *rowBuilder) categories() IntArray {
	ids := make(IntArray, b.src.IntRange(b.d.CategoryCount.Min, b.d.CategoryCount.Max))
	for i := range ids {
		ids[i] = b.src.IntRange(b.d.CategoryID.Min, b.d.CategoryID.Max)
	}
	return ids
}

func (b *rowBuilder) url(kind string) String {
	return b.token("http://"+kind+".url/", b.d.URLSuffix)
}

// registry is the target table layout, in column order.
var registry = []Column{
	{"sign", "Int8", func(b *rowBuilder) Value { return Int(1) }},
	{"timemark", "DateTime", func(b *rowBuilder) Value { return TimeStep{Offset: b.step} }},
	{"datehourmark", "DateTime", func(b *rowBuilder) Value { return TimeStep{Func: "toStartOfHour", Offset: b.step} }},
	{"datemark", "Date", func(b *rowBuilder) Value { return TimeStep{Func: "toDate", Offset: b.step} }},
	{"delay", "UInt64", func(b *rowBuilder) Value { return b.intIn(b.d.Delay) }},
	{"duration", "UInt64", func(b *rowBuilder) Value { return b.intIn(b.d.Duration) }},
	{"event", "LowCardinality(String)", func(b *rowBuilder) Value { return b.pick(b.d.EventTypes) }},
	{"status", "UInt8", func(b *rowBuilder) Value { return b.intIn(b.d.Status) }},
	{"auc_id", "FixedString(16)", func(b *rowBuilder) Value { return b.uuid() }},
	{"auc_type", "UInt8", func(b *rowBuilder) Value { return b.pickInt(b.d.AuctionTypes) }},
	{"imp_id", "FixedString(16)", func(b *rowBuilder) Value { return b.uuid() }},
	{"impad_id", "FixedString(16)", func(b *rowBuilder) Value { return b.uuid() }},
	{"extauc_id", "String", func(b *rowBuilder) Value { return b.token("extauc_", b.d.ExternalID) }},
	{"extimp_id", "String", func(b *rowBuilder) Value { return b.token("extimp_", b.d.ExternalID) }},
	{"source_id", "UInt64", func(b *rowBuilder) Value { return b.intIn(b.d.ReferenceID) }},
	{"network", "LowCardinality(String)", func(b *rowBuilder) Value { return b.token("network_", b.d.Network) }},
	{"platform_type", "UInt8", func(b *rowBuilder) Value { return b.pickInt(b.d.PlatformTypes) }},
	{"domain", "LowCardinality(String)", func(b *rowBuilder) Value { return b.token("domain_", b.d.Domain) }},
	{"app_id", "UInt64", func(b *rowBuilder) Value { return b.intIn(b.d.ReferenceID) }},
	{"zone_id", "UInt64", func(b *rowBuilder) Value { return b.intIn(b.d.ReferenceID) }},
	{"format_id", "UInt32", func(b *rowBuilder) Value { return b.intIn(b.d.ReferenceID) }},
	{"ad_w", "Int32", func(b *rowBuilder) Value { return b.intIn(b.d.AdWidth) }},
	{"ad_h", "Int32", func(b *rowBuilder) Value { return b.intIn(b.d.AdHeight) }},
	{"src_url", "String", func(b *rowBuilder) Value { return b.url("src") }},
	{"win_url", "String", func(b *rowBuilder) Value { return b.url("win") }},
	{"url", "String", func(b *rowBuilder) Value { return b.url("target") }},
	{"pricing_model", "UInt8", func(b *rowBuilder) Value { return b.intIn(b.d.PricingModel) }},
	{"purchase_view_price", "Int64", func(b *rowBuilder) Value { return b.price() }},
	{"purchase_click_price", "Int64", func(b *rowBuilder) Value { return b.price() }},
	{"potential_view_price", "Int64", func(b *rowBuilder) Value { return b.price() }},
	{"potential_click_price", "Int64", func(b *rowBuilder) Value { return b.price() }},
	{"view_price", "Int64", func(b *rowBuilder) Value { return b.price() }},
	{"click_price", "Int64", func(b *rowBuilder) Value { return b.price() }},
	{"ud_id", "String", func(b *rowBuilder) Value { return b.token("ud_", b.d.TokenSuffix) }},
	{"uu_id", "FixedString(16)", func(b *rowBuilder) Value { return b.uuid() }},
	{"sess_id", "FixedString(16)", func(b *rowBuilder) Value { return b.uuid() }},
	{"fingerprint", "String", func(b *rowBuilder) Value { return b.token("fp_", b.d.TokenSuffix) }},
	{"etag", "String", func(b *rowBuilder) Value { return b.token("etag_", b.d.TokenSuffix) }},
	{"carrier_id", "UInt64", func(b *rowBuilder) Value { return b.intIn(b.d.ReferenceID) }},
	{"country", "FixedString(2)", func(b *rowBuilder) Value { return b.pick(b.d.Countries) }},
	{"latitude", "Float64", func(b *rowBuilder) Value { return b.coord(b.d.Latitude) }},
	{"longitude", "Float64", func(b *rowBuilder) Value { return b.coord(b.d.Longitude) }},
	{"language", "FixedString(5)", func(b *rowBuilder) Value { return String(b.d.Language) }},
	{"ip", "IPv6", func(b *rowBuilder) Value { return b.ipv6() }},
	{"referer", "String", func(b *rowBuilder) Value { return b.url("ref") }},
	{"page_url", "String", func(b *rowBuilder) Value { return b.url("page") }},
	{"user_agent", "String", func(b *rowBuilder) Value { return String(b.d.UserAgent) }},
	{"device_id", "UInt32", func(b *rowBuilder) Value { return b.intIn(b.d.ReferenceID) }},
	{"device_type", "UInt32", func(b *rowBuilder) Value { return b.intIn(b.d.DeviceType) }},
	{"os_id", "UInt32", func(b *rowBuilder) Value { return b.intIn(b.d.ReferenceID) }},
	{"browser_id", "UInt32", func(b *rowBuilder) Value { return b.intIn(b.d.ReferenceID) }},
	{"category_ids", "Array(UInt32)", func(b *rowBuilder) Value { return b.categories() }},
	{"adblock", "UInt8", func(b *rowBuilder) Value { return b.flag() }},
	{"private", "UInt8", func(b *rowBuilder) Value { return b.flag() }},
	{"robot", "UInt8", func(b *rowBuilder) Value { return b.flag() }},
	{"proxy", "UInt8", func(b *rowBuilder) Value { return b.flag() }},
	{"backup", "UInt8", func(b *rowBuilder) Value { return b.flag() }},
	{"x", "Int32", func(b *rowBuilder) Value { return b.intIn(b.d.PosX) }},
	{"y", "Int32", func(b *rowBuilder) Value { return b.intIn(b.d.PosY) }},
	{"w", "Int32", func(b *rowBuilder) Value { return b.intIn(b.d.AdWidth) }},
	{"h", "Int32", func(b *rowBuilder) Value { return b.intIn(b.d.AdHeight) }},
	{"subid1", "String", func(b *rowBuilder) Value { return b.token("subid1_", b.d.TokenSuffix) }},
	{"subid2", "String", func(b *rowBuilder) Value { return b.token("subid2_", b.d.TokenSuffix) }},
	{"subid3", "String", func(b *rowBuilder) Value { return b.token("subid3_", b.d.TokenSuffix) }},
	{"subid4", "String", func(b *rowBuilder) Value { return b.token("subid4_", b.d.TokenSuffix) }},
	{"subid5", "String", func(b *rowBuilder) Value { return b.token("subid5_", b.d.TokenSuffix) }},
	{"created_at", "DateTime", func(b *rowBuilder) Value { return String(b.createdAt.Format(calendarLayout)) }},
}

// Columns returns the ordered column layout every row follows.
func Columns() []Column {
	out := make([]Column, len(registry))
	copy(out, registry)
	return out
}

// ColumnNames returns just the names, in order.
func ColumnNames() []string {
	names := make([]string, len(registry))
	for i, c := range registry {
		names[i] = c.Name
	}
	return names
}
