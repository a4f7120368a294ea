package main

import (
	"bytes"
	"io"
	"testing"

	"github.com/iov-one/arbiter/arbitertest"
	"github.com/iov-one/arbiter/arbitertest/assert"
	arbiterd "github.com/iov-one/arbiter/cmd/arbiterd/app"
	"github.com/iov-one/arbiter/x/docsign"
)

func TestTxStreaming(t *testing.T) {
	first, err := arbiterd.NewTx(&docsign.InitClerkMsg{Limit: 4})
	assert.Nil(t, err)
	second, err := arbiterd.NewTx(&docsign.StageUpgradeMsg{ClerkID: arbitertest.NewCondition().Address()})
	assert.Nil(t, err)

	var buf bytes.Buffer
	n1, err := writeTx(&buf, first)
	assert.Nil(t, err)
	n2, err := writeTx(&buf, second)
	assert.Nil(t, err)
	assert.Equal(t, n1+n2, buf.Len())

	got, n, err := readTx(&buf)
	assert.Nil(t, err)
	assert.Equal(t, n1, n)
	assert.Equal(t, first.MsgPath, got.MsgPath)

	got, _, err = readTx(&buf)
	assert.Nil(t, err)
	assert.Equal(t, docsign.PathStageUpgrade, got.MsgPath)

	if _, _, err := readTx(&buf); err != io.EOF {
		t.Fatalf("want EOF, got %v", err)
	}
}

func TestReadTruncatedTx(t *testing.T) {
	tx, err := arbiterd.NewTx(&docsign.InitClerkMsg{Limit: 4})
	assert.Nil(t, err)
	var buf bytes.Buffer
	_, err = writeTx(&buf, tx)
	assert.Nil(t, err)

	truncated := buf.Bytes()[:buf.Len()-1]
	if _, _, err := readTx(bytes.NewReader(truncated)); err != io.ErrUnexpectedEOF {
		t.Fatalf("want unexpected EOF, got %v", err)
	}

	huge := []byte{0xff, 0xff, 0xff, 0xff}
	if _, _, err := readTx(bytes.NewReader(huge)); err == nil {
		t.Fatal("want oversized transaction to be rejected")
	}
}

func TestWriteInvalidMsg(t *testing.T) {
	var buf bytes.Buffer
	if err := writeMsg(&buf, &docsign.InitClerkMsg{Limit: 0}); err == nil {
		t.Fatal("want invalid message to be rejected")
	}
	assert.Equal(t, 0, buf.Len())
}
