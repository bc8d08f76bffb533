// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"fmt"
	"slices"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"

	"github.com/poiesic/docfeed/core"
)

// ValueMUS serializes core.Value: a varint kind tag followed by the
// payload for that kind. List values are length-prefixed and recursive.
var ValueMUS = valueSer{}

// RecordMUS serializes core.Record: a varint field count followed by
// name/value pairs. Fields are written in sorted name order so equal
// records always produce identical bytes.
var RecordMUS = recordSer{}

type valueSer struct{}

func (s valueSer) Marshal(v core.Value, bs []byte) (n int) {
	n = varint.Int.Marshal(int(v.Kind), bs)
	switch v.Kind {
	case core.KindString:
		n += ord.String.Marshal(v.Str, bs[n:])
	case core.KindBool:
		n += ord.Bool.Marshal(v.Bool, bs[n:])
	case core.KindInt32, core.KindInt64:
		n += varint.Int64.Marshal(v.Int, bs[n:])
	case core.KindFloat64:
		n += varint.Float64.Marshal(v.Float, bs[n:])
	case core.KindList:
		n += varint.Int.Marshal(len(v.List), bs[n:])
		for _, item := range v.List {
			n += s.Marshal(item, bs[n:])
		}
	}
	return n
}

func (s valueSer) Unmarshal(bs []byte) (v core.Value, n int, err error) {
	var kind int
	kind, n, err = varint.Int.Unmarshal(bs)
	if err != nil {
		return v, n, err
	}
	v.Kind = core.Kind(kind)
	var m int
	switch v.Kind {
	case core.KindString:
		v.Str, m, err = ord.String.Unmarshal(bs[n:])
	case core.KindBool:
		v.Bool, m, err = ord.Bool.Unmarshal(bs[n:])
	case core.KindInt32, core.KindInt64:
		v.Int, m, err = varint.Int64.Unmarshal(bs[n:])
	case core.KindFloat64:
		v.Float, m, err = varint.Float64.Unmarshal(bs[n:])
	case core.KindList:
		var count int
		count, m, err = varint.Int.Unmarshal(bs[n:])
		if err != nil {
			return v, n + m, err
		}
		if count < 0 {
			return v, n + m, fmt.Errorf("%w: negative list length %d", ErrSerializationFailed, count)
		}
		n += m
		v.List = make([]core.Value, 0, count)
		for i := 0; i < count; i++ {
			var item core.Value
			item, m, err = s.Unmarshal(bs[n:])
			n += m
			if err != nil {
				return v, n, err
			}
			v.List = append(v.List, item)
		}
		return v, n, nil
	default:
		return v, n, fmt.Errorf("%w: unknown value kind %d", ErrSerializationFailed, kind)
	}
	return v, n + m, err
}

func (s valueSer) Size(v core.Value) (size int) {
	size = varint.Int.Size(int(v.Kind))
	switch v.Kind {
	case core.KindString:
		size += ord.String.Size(v.Str)
	case core.KindBool:
		size += ord.Bool.Size(v.Bool)
	case core.KindInt32, core.KindInt64:
		size += varint.Int64.Size(v.Int)
	case core.KindFloat64:
		size += varint.Float64.Size(v.Float)
	case core.KindList:
		size += varint.Int.Size(len(v.List))
		for _, item := range v.List {
			size += s.Size(item)
		}
	}
	return size
}

type recordSer struct{}

func (s recordSer) Marshal(rec core.Record, bs []byte) (n int) {
	fields := sortedFields(rec)
	n = varint.Int.Marshal(len(fields), bs)
	for _, field := range fields {
		n += ord.String.Marshal(field, bs[n:])
		n += ValueMUS.Marshal(rec[field], bs[n:])
	}
	return n
}

func (s recordSer) Unmarshal(bs []byte) (rec core.Record, n int, err error) {
	var count int
	count, n, err = varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if count < 0 {
		return nil, n, fmt.Errorf("%w: negative field count %d", ErrSerializationFailed, count)
	}
	rec = make(core.Record, count)
	var m int
	for i := 0; i < count; i++ {
		var field string
		field, m, err = ord.String.Unmarshal(bs[n:])
		n += m
		if err != nil {
			return nil, n, err
		}
		var value core.Value
		value, m, err = ValueMUS.Unmarshal(bs[n:])
		n += m
		if err != nil {
			return nil, n, err
		}
		rec[field] = value
	}
	return rec, n, nil
}

func (s recordSer) Size(rec core.Record) (size int) {
	size = varint.Int.Size(len(rec))
	for field, value := range rec {
		size += ord.String.Size(field)
		size += ValueMUS.Size(value)
	}
	return size
}

func sortedFields(rec core.Record) []string {
	fields := make([]string, 0, len(rec))
	for field := range rec {
		fields = append(fields, field)
	}
	slices.Sort(fields)
	return fields
}

// MarshalRecord serializes a Record to bytes.
func MarshalRecord(rec core.Record) []byte {
	buf := make([]byte, RecordMUS.Size(rec))
	RecordMUS.Marshal(rec, buf)
	return buf
}

// UnmarshalRecord deserializes a Record from bytes.
func UnmarshalRecord(data []byte) (core.Record, error) {
	rec, _, err := RecordMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return rec, nil
}

// MarshalSequence serializes a sequence number to bytes.
func MarshalSequence(seq uint64) []byte {
	buf := make([]byte, varint.Uint64.Size(seq))
	varint.Uint64.Marshal(seq, buf)
	return buf
}

// UnmarshalSequence deserializes a sequence number from bytes.
func UnmarshalSequence(data []byte) (uint64, error) {
	seq, _, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrTruncatedData, err)
	}
	return seq, nil
}
