// Package features 定义评分服务与训练任务共享的特征 schema 以及编码、标准化逻辑。
//
// 训练和线上评分必须使用同一份列顺序，否则模型预测会静默出错，
// 因此两端都只通过 Default 这一份定义来生成特征向量。
package features

// 字段名，与请求体 / CSV 表头保持一致
const (
	FieldCreditScore       = "credit_score"
	FieldIncome            = "income"
	FieldBudget            = "budget"
	FieldAgeGroup          = "age_group"
	FieldFamilyBackground  = "family_background"
	FieldPropertyType      = "property_type"
	FieldPreferredLocation = "preferred_location"
)

// Field 是一个类别特征及其有序的合法取值
type Field struct {
	Name   string
	Values []string
}

// Schema 描述特征向量的列布局：先是数值列，然后按顺序展开每个类别字段的 one-hot 列
type Schema struct {
	Numeric     []string
	Categorical []Field
}

// Default 是线上服务和训练任务共用的特征 schema
var Default = Schema{
	Numeric: []string{FieldCreditScore, FieldIncome, FieldBudget},
	Categorical: []Field{
		{Name: FieldAgeGroup, Values: []string{"18-25", "26-35", "36-50", "51+"}},
		{Name: FieldFamilyBackground, Values: []string{"Single", "Married", "Married with Kids"}},
		{Name: FieldPropertyType, Values: []string{"Apartment", "Villa", "Plot", "Commercial"}},
		{Name: FieldPreferredLocation, Values: []string{
			"Noida", "Delhi", "Mumbai", "Bangalore", "Hyderabad",
			"Ahmedabad", "Chennai", "Surat", "Jaipur", "Pune",
		}},
	},
}

// Columns 返回按向量顺序排列的列名，one-hot 列命名为 <field>_<value>
func (s Schema) Columns() []string {
	cols := make([]string, 0, s.Width())
	cols = append(cols, s.Numeric...)
	for _, f := range s.Categorical {
		for _, v := range f.Values {
			cols = append(cols, f.Name+"_"+v)
		}
	}
	return cols
}

// Width 返回特征向量的维度
func (s Schema) Width() int {
	n := len(s.Numeric)
	for _, f := range s.Categorical {
		n += len(f.Values)
	}
	return n
}

// Field 按名称查找类别字段
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Categorical {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Contains 判断类别字段是否包含给定取值（大小写敏感，与编码时的相等比较一致）
func (s Schema) Contains(field, value string) bool {
	f, ok := s.Field(field)
	if !ok {
		return false
	}
	for _, v := range f.Values {
		if v == value {
			return true
		}
	}
	return false
}

// SameColumns 判断给定列名是否与 schema 的列完全一致（包括顺序）
func (s Schema) SameColumns(cols []string) bool {
	want := s.Columns()
	if len(want) != len(cols) {
		return false
	}
	for i := range want {
		if want[i] != cols[i] {
			return false
		}
	}
	return true
}
