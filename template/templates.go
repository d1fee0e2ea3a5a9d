package template

import "github.com/siatlabs/siat/model"

// Default templates keyed by flow type. The generator rewrites the Generic /
// data / item placeholder tokens with words lifted from the prompt.

const LANG_TYPESCRIPT = "typescript"
const LANG_PYTHON = "python"
const LANG_SQL = "sql"

var templateOrder = []model.FlowType{
	model.FLOW_TYPE_CRUD,
	model.FLOW_TYPE_API,
	model.FLOW_TYPE_WORKFLOW,
	model.FLOW_TYPE_REPORT,
	model.FLOW_TYPE_DASHBOARD,
	model.FLOW_TYPE_FORM,
	model.FLOW_TYPE_AUTOMATION,
	model.FLOW_TYPE_INTEGRATION,
}

var defaultTemplates = map[model.FlowType]model.CodeTemplate{
	model.FLOW_TYPE_CRUD: {
		Type:     model.FLOW_TYPE_CRUD,
		Language: LANG_TYPESCRIPT,
		Name:     "crud-controller",
		Body: `import { Controller, Get, Post, Patch, Delete, Body, Param } from '@nestjs/common';
import { GenericService } from './generic.service';

@Controller('generic')
export class GenericController {
  constructor(private readonly service: GenericService) {}

  @Get()
  findAll() {
    return this.service.findAll();
  }

  @Get(':id')
  findOne(@Param('id') id: string) {
    return this.service.findOne(id);
  }

  @Post()
  create(@Body() data: Record<string, unknown>) {
    return this.service.create(data);
  }

  @Patch(':id')
  update(@Param('id') id: string, @Body() data: Record<string, unknown>) {
    return this.service.update(id, data);
  }

  @Delete(':id')
  remove(@Param('id') id: string) {
    return this.service.remove(id);
  }
}`,
	},
	model.FLOW_TYPE_API: {
		Type:     model.FLOW_TYPE_API,
		Language: LANG_TYPESCRIPT,
		Name:     "api-service",
		Body: `import { Injectable } from '@nestjs/common';

@Injectable()
export class GenericService {
  private readonly items: Record<string, unknown>[] = [];

  findAll() {
    return this.items;
  }

  findOne(id: string) {
    return this.items.find((item) => item['id'] === id);
  }

  create(data: Record<string, unknown>) {
    this.items.push(data);
    return data;
  }

  update(id: string, data: Record<string, unknown>) {
    const item = this.findOne(id);
    return Object.assign(item ?? {}, data);
  }

  remove(id: string) {
    const idx = this.items.findIndex((item) => item['id'] === id);
    if (idx >= 0) {
      this.items.splice(idx, 1);
    }
    return { deleted: idx >= 0 };
  }
}`,
	},
	model.FLOW_TYPE_WORKFLOW: {
		Type:     model.FLOW_TYPE_WORKFLOW,
		Language: LANG_TYPESCRIPT,
		Name:     "workflow",
		Body: `import { Injectable } from '@nestjs/common';

export interface GenericStep {
  name: string;
  run(data: Record<string, unknown>): Promise<Record<string, unknown>>;
}

@Injectable()
export class GenericWorkflow {
  private readonly steps: GenericStep[] = [];

  register(step: GenericStep) {
    this.steps.push(step);
  }

  async execute(data: Record<string, unknown>) {
    let current = data;
    for (const step of this.steps) {
      current = await step.run(current);
    }
    return current;
  }
}`,
	},
	model.FLOW_TYPE_REPORT: {
		Type:     model.FLOW_TYPE_REPORT,
		Language: LANG_SQL,
		Name:     "report-query",
		Body: `SELECT
  item.id,
  item.name,
  item.created_at,
  COUNT(*) AS total
FROM generic AS item
WHERE item.tenant_id = :tenantId
GROUP BY item.id, item.name, item.created_at
ORDER BY item.created_at DESC`,
	},
	model.FLOW_TYPE_DASHBOARD: {
		Type:     model.FLOW_TYPE_DASHBOARD,
		Language: LANG_TYPESCRIPT,
		Name:     "dashboard-component",
		Body: `import React, { useEffect, useState } from 'react';

export function GenericDashboard() {
  const [data, setData] = useState<Record<string, unknown>[]>([]);

  useEffect(() => {
    fetch('/api/generic')
      .then((res) => res.json())
      .then((data) => setData(data));
  }, []);

  return (
    <div className="generic-dashboard">
      <h2>Generic</h2>
      <ul>
        {data.map((item, i) => (
          <li key={i}>{JSON.stringify(item)}</li>
        ))}
      </ul>
    </div>
  );
}`,
	},
	model.FLOW_TYPE_FORM: {
		Type:     model.FLOW_TYPE_FORM,
		Language: LANG_TYPESCRIPT,
		Name:     "form-component",
		Body: `import React, { useState } from 'react';

export function GenericForm() {
  const [data, setData] = useState<Record<string, string>>({});

  const submit = (e: React.FormEvent) => {
    e.preventDefault();
    fetch('/api/generic', {
      method: 'POST',
      headers: { 'Content-Type': 'application/json' },
      body: JSON.stringify(data),
    });
  };

  return (
    <form className="generic-form" onSubmit={submit}>
      <input
        name="name"
        onChange={(e) => setData({ ...data, name: e.target.value })}
      />
      <button type="submit">Save</button>
    </form>
  );
}`,
	},
	model.FLOW_TYPE_AUTOMATION: {
		Type:     model.FLOW_TYPE_AUTOMATION,
		Language: LANG_PYTHON,
		Name:     "automation-task",
		Body: `import json
import logging

logger = logging.getLogger("generic")


def run(data):
    logger.info("running generic automation")
    result = {}
    for item in data.get("items", []):
        result[item.get("id")] = process(item)
    return result


def process(item):
    return {"status": "processed", "item": item}`,
	},
	model.FLOW_TYPE_INTEGRATION: {
		Type:     model.FLOW_TYPE_INTEGRATION,
		Language: LANG_TYPESCRIPT,
		Name:     "integration-client",
		Body: `import { Injectable } from '@nestjs/common';

@Injectable()
export class GenericIntegration {
  constructor(private readonly baseUrl: string) {}

  async fetchAll(): Promise<Record<string, unknown>[]> {
    const res = await fetch(this.baseUrl + '/generic');
    if (!res.ok) {
      throw new Error('generic integration request failed: ' + res.status);
    }
    const data = await res.json();
    return data;
  }

  async push(item: Record<string, unknown>) {
    await fetch(this.baseUrl + '/generic', {
      method: 'POST',
      headers: { 'Content-Type': 'application/json' },
      body: JSON.stringify(item),
    });
  }
}`,
	},
}
