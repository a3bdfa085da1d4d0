package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanGoImports(t *testing.T) {
	src := []byte(`package api

import "fmt"

import (
	"context"
	sq "database/sql"

	"example.com/app/internal/billing"
)
`)
	imports := scanImports("go", src)
	require.Len(t, imports, 4)

	assert.Equal(t, Import{Spec: "fmt", Line: 3}, imports[0])
	assert.Equal(t, Import{Spec: "context", Line: 6}, imports[1])
	assert.Equal(t, Import{Spec: "database/sql", Line: 7}, imports[2])
	assert.Equal(t, Import{Spec: "example.com/app/internal/billing", Line: 9}, imports[3])
}

func TestScanPythonImports(t *testing.T) {
	src := []byte(`import os
import json, sys as system
from collections import OrderedDict
from .models import Order, Invoice as Inv
from ..shared.util import slugify
from . import db, cache
from .constants import *
`)
	imports := scanImports("python", src)
	require.Len(t, imports, 9)

	assert.Equal(t, Import{Spec: "os", Line: 1}, imports[0])
	assert.Equal(t, Import{Spec: "json", Line: 2}, imports[1])
	assert.Equal(t, Import{Spec: "sys", Line: 2}, imports[2])
	assert.Equal(t, Import{Spec: "collections", Names: []string{"OrderedDict"}, Line: 3}, imports[3])
	// Aliased names keep the source-module binding.
	assert.Equal(t, Import{Spec: "./models", Names: []string{"Order", "Invoice"}, Line: 4}, imports[4])
	assert.Equal(t, Import{Spec: "../shared/util", Names: []string{"slugify"}, Line: 5}, imports[5])
	// "from . import x" treats each name as a sibling module.
	assert.Equal(t, Import{Spec: "./db", Line: 6}, imports[6])
	assert.Equal(t, Import{Spec: "./cache", Line: 6}, imports[7])
	// Star import carries whole-module semantics: no names.
	assert.Equal(t, Import{Spec: "./constants", Line: 7}, imports[8])
	assert.Nil(t, imports[8].Names)
}

func TestScanJSImports(t *testing.T) {
	src := []byte(`import express from 'express';
import { Router, json as parseJSON } from './http';
import * as path from 'path';
import './polyfills';
export { OrderService } from './orders';
const { readFile } = require('./fs-utils');
const legacy = require('./legacy');
loadPlugin(() => import('./plugin'));
`)
	imports := scanImports("javascript", src)
	require.Len(t, imports, 8)

	assert.Equal(t, Import{Spec: "express", Names: []string{"default"}, Line: 1}, imports[0])
	assert.Equal(t, Import{Spec: "./http", Names: []string{"Router", "json"}, Line: 2}, imports[1])
	// Namespace import is whole-module.
	assert.Equal(t, Import{Spec: "path", Line: 3}, imports[2])
	assert.Nil(t, imports[2].Names)
	assert.Equal(t, Import{Spec: "./polyfills", Line: 4}, imports[3])
	assert.Equal(t, Import{Spec: "./orders", Names: []string{"OrderService"}, Line: 5}, imports[4])
	assert.Equal(t, Import{Spec: "./fs-utils", Names: []string{"readFile"}, Line: 6}, imports[5])
	assert.Equal(t, Import{Spec: "./legacy", Names: []string{"default"}, Line: 7}, imports[6])
	assert.Equal(t, Import{Spec: "./plugin", Line: 8}, imports[7])
}

func TestParseImportClause(t *testing.T) {
	tests := []struct {
		clause string
		want   []string
	}{
		{"* as ns", nil},
		{"Default", []string{"default"}},
		{"Default, { a, b }", []string{"default", "a", "b"}},
		{"{ a as renamed, type T }", []string{"a", "T"}},
		{"{ original: renamed }", []string{"original"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseImportClause(tt.clause), tt.clause)
	}
}
