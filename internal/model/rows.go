package model

// CanonicalRow 是规范化 CSV 的一行：价格为整数分，日期为 TimestampLayout。
// 字段保留为字符串，由导入方逐行转换以便报告行号。
type CanonicalRow struct {
	Name        string `csv:"product_name"`
	Price       string `csv:"product_price"`
	Quantity    string `csv:"product_quantity"`
	DateUpdated string `csv:"date_updated"`
}
