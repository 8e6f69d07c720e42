package params

// Similarity parameter keys.
const (
	Address1   = "address1"
	Address2   = "address2"
	Fields     = "fields"
	Properties = "properties"
	Records    = "records"
)

// AddressSimilarityParams is the input of address-similarity. Addresses are
// sent as given; only their presence is checked.
type AddressSimilarityParams struct {
	fieldSet
}

// NewAddressSimilarityParams returns an empty set; both addresses are required.
func NewAddressSimilarityParams() *AddressSimilarityParams {
	return &AddressSimilarityParams{
		fieldSet: newFieldSet(AddressSimilarityKind, []string{Address1, Address2, MatchParameters}, Address1, Address2),
	}
}

// SetAddress1 sets the first address, either a free-form string or a map of
// address fields (houseNumber, road, city, ...).
func (p *AddressSimilarityParams) SetAddress1(addr any) { p.set(Address1, addr) }

// SetAddress2 sets the second address.
func (p *AddressSimilarityParams) SetAddress2(addr any) { p.set(Address2, addr) }

// RecordSimilarityParams is the input of record-similarity: a field schema,
// matching properties, and the left/right record lists.
type RecordSimilarityParams struct {
	fieldSet
}

// NewRecordSimilarityParams returns an empty set; every key is required.
func NewRecordSimilarityParams() *RecordSimilarityParams {
	return &RecordSimilarityParams{
		fieldSet: newFieldSet(RecordSimilarityKind, []string{Fields, Properties, Records}, Fields, Properties, Records),
	}
}

// SetFields sets the field schema: field name to type and weight.
func (p *RecordSimilarityParams) SetFields(fields map[string]any) { p.set(Fields, fields) }

// SetProperties sets matching properties such as threshold.
func (p *RecordSimilarityParams) SetProperties(properties map[string]any) { p.set(Properties, properties) }

// SetRecords sets the "left" and "right" record lists.
func (p *RecordSimilarityParams) SetRecords(records map[string]any) { p.set(Records, records) }
