package extract

import "testing"

func TestRecordMarshal_FixedLayout(t *testing.T) {
	r := Record{Revenue: Amount(1234.5), NetProfit: Amount(200)}
	b, err := r.Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := "{\n    \"Revenue/Sales\": 1234.5,\n    \"Operating Profit\": null,\n    \"Net Profit\": 200\n}"
	if string(b) != want {
		t.Fatalf("got\n%s\nwant\n%s", b, want)
	}
}

func TestRecordMarshal_EmptyRecordKeepsKeys(t *testing.T) {
	b, err := Record{}.Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := "{\n    \"Revenue/Sales\": null,\n    \"Operating Profit\": null,\n    \"Net Profit\": null\n}"
	if string(b) != want {
		t.Fatalf("got\n%s", b)
	}
}

func TestRecordPresent(t *testing.T) {
	if n := (Record{OperatingProfit: Amount(0)}).Present(); n != 1 {
		t.Fatalf("Present=%d, want 1", n)
	}
	if !(Record{}).Empty() {
		t.Fatal("zero record should be empty")
	}
}
