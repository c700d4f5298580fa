// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package kar

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestAddAndWrite(t *testing.T) {
	builder, err := NewBuilder(Header{
		Author:      "devblok",
		DateCreated: time.Now().Unix(),
		Version:     1,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer builder.Close()

	if err := builder.Add("test", strings.NewReader("idunvovkjnreovmegihjbrqlkmfrjnb")); err != nil {
		t.Fatal(err)
	}
	if err := builder.Add("test2", strings.NewReader("idunvovkjnreovmsdvwrvnervnreegihjbrqlkmfrjnb")); err != nil {
		t.Fatal(err)
	}

	if len(builder.files) != 2 {
		t.Error("incorrect number of files present")
	}

	if err := builder.Add("test", strings.NewReader("again")); !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}

	var buf bytes.Buffer
	num, err := builder.WriteTo(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if num != int64(buf.Len()) {
		t.Errorf("reported %d bytes written, wrote %d", num, buf.Len())
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("KAR\x00")) {
		t.Error("missing magic")
	}
}

func TestAddConcurrently(t *testing.T) {
	builder, err := NewBuilder(Header{Author: "devblok"})
	if err != nil {
		t.Fatal(err)
	}
	defer builder.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := string(rune('a' + i))
			if err := builder.Add(name, strings.NewReader(strings.Repeat(name, 1000))); err != nil {
				t.Error(err)
			}
		}(i)
	}
	wg.Wait()

	if len(builder.files) != 8 {
		t.Fatalf("expected 8 files, got %d", len(builder.files))
	}
	for _, f := range builder.files {
		if f.Size != 1000 {
			t.Errorf("%s: expected 1000 bytes, got %d", f.Name, f.Size)
		}
	}
}

func TestHeaderSizeEncoding(t *testing.T) {
	raw := int64ToBinary(1234)
	if len(raw) != HeaderSizeNumberLength {
		t.Fatalf("expected %d bytes, got %d", HeaderSizeNumberLength, len(raw))
	}
	num, err := binaryToint64(raw)
	if err != nil {
		t.Fatal(err)
	}
	if num != 1234 {
		t.Fatalf("expected 1234, got %d", num)
	}
}
